package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/auditfilter/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "nested", "auditfilter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleRecords() []*models.Record {
	return []*models.Record{
		{ID: "check-1", Label: "Non-text content", Category: models.CategoryManual, Status: models.StatusNotTested, SearchText: "MANUAL-01 Non-text content manual"},
		{ID: "check-2", Label: "Colour contrast", Category: models.CategoryAxe, Status: models.StatusError, SearchText: "AXE-02 Colour contrast axe"},
		{ID: "", Label: "Case details", Target: "/cases/1/edit-case-details/", TargetPage: "Case details", SearchText: "One: Search target"},
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	database := openTestDB(t)

	_, err := database.SaveSnapshot("audit-1", "audits_check_filter", "audit.html", sampleRecords())
	require.NoError(t, err)

	snapshot, loaded, err := database.LoadSnapshot("audit-1")
	require.NoError(t, err)

	assert.Equal(t, "audit-1", snapshot.Name)
	assert.Equal(t, "audits_check_filter", snapshot.Screen)
	assert.Equal(t, "audit.html", snapshot.Source)
	assert.Equal(t, 3, snapshot.RecordCount)
	assert.False(t, snapshot.ImportedAt.IsZero(), "ImportedAt not set")

	// Loaded records always start visible
	want := sampleRecords()
	for _, r := range want {
		r.Visible = true
	}
	assert.Equal(t, want, loaded)
}

func TestSaveSnapshotReplaces(t *testing.T) {
	database := openTestDB(t)

	_, err := database.SaveSnapshot("audit-1", "audits_check_filter", "first.html", sampleRecords())
	require.NoError(t, err)
	_, err = database.SaveSnapshot("audit-1", "audits_check_filter", "second.html", sampleRecords()[:1])
	require.NoError(t, err)

	snapshot, loaded, err := database.LoadSnapshot("audit-1")
	require.NoError(t, err)
	assert.Equal(t, "second.html", snapshot.Source)
	assert.Len(t, loaded, 1)

	list, err := database.ListSnapshots()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListAndDeleteSnapshots(t *testing.T) {
	database := openTestDB(t)

	for _, name := range []string{"links", "audit"} {
		_, err := database.SaveSnapshot(name, "freq_links_filter", "", sampleRecords())
		require.NoError(t, err, name)
	}

	list, err := database.ListSnapshots()
	require.NoError(t, err)
	var names []string
	for _, s := range list {
		names = append(names, s.Name)
		assert.Equal(t, 3, s.RecordCount, s.Name)
	}
	assert.ElementsMatch(t, []string{"audit", "links"}, names)

	require.NoError(t, database.DeleteSnapshot("links"))

	_, _, err = database.LoadSnapshot("links")
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.ErrorIs(t, database.DeleteSnapshot("links"), ErrNoSnapshot)

	list, err = database.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "audit", list[0].Name)
}

func TestLoadMissingSnapshot(t *testing.T) {
	database := openTestDB(t)

	_, records, err := database.LoadSnapshot("nope")
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Nil(t, records)
}

func TestParseTimestamp(t *testing.T) {
	for _, ts := range []string{"2026-03-01 10:30:00", "2026-03-01T10:30:00Z", "2026-03-01T10:30:00+01:00"} {
		_, err := parseTimestamp(ts)
		assert.NoError(t, err, ts)
	}
	_, err := parseTimestamp("yesterday")
	assert.Error(t, err)
}
