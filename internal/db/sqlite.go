package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thesavant42/auditfilter/internal/models"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when a named snapshot does not exist
var ErrNoSnapshot = errors.New("snapshot not found")

// DB wraps the SQLite snapshot store
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the snapshot store and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createSnapshotsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create snapshots schema: %w", err)
	}

	if _, err := conn.Exec(createSnapshotRecordsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create snapshot records schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveSnapshot stores records under name, replacing any snapshot with the same name.
// Record order is preserved; visibility is not stored.
func (db *DB) SaveSnapshot(name, screen, source string, records []*models.Record) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldID int64
	err = tx.QueryRow(selectSnapshotID, name).Scan(&oldID)
	switch {
	case err == nil:
		if _, err := tx.Exec(deleteSnapshotRecords, oldID); err != nil {
			return 0, fmt.Errorf("failed to clear snapshot %s: %w", name, err)
		}
		if _, err := tx.Exec(deleteSnapshot, oldID); err != nil {
			return 0, fmt.Errorf("failed to replace snapshot %s: %w", name, err)
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return 0, fmt.Errorf("failed to look up snapshot %s: %w", name, err)
	}

	res, err := tx.Exec(insertSnapshot, name, screen, source, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot id: %w", err)
	}

	stmt, err := tx.Prepare(insertSnapshotRecord)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.Exec(
			id,
			i,
			r.ID,
			r.Label,
			r.Target,
			r.TargetPage,
			string(r.Category),
			string(r.Status),
			r.SearchText,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// LoadSnapshot returns a snapshot and its records in their original order.
// Every record starts visible.
func (db *DB) LoadSnapshot(name string) (models.Snapshot, []*models.Record, error) {
	var s models.Snapshot
	var importedAt string
	err := db.conn.QueryRow(selectSnapshot, name).Scan(&s.ID, &s.Name, &s.Screen, &s.Source, &importedAt, &s.RecordCount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, nil, fmt.Errorf("%w: %s", ErrNoSnapshot, name)
	}
	if err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	s.ImportedAt, _ = parseTimestamp(importedAt)

	rows, err := db.conn.Query(selectSnapshotRecords, s.ID)
	if err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("failed to query snapshot records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		r := &models.Record{Visible: true}
		var category, status string
		if err := rows.Scan(&r.ID, &r.Label, &r.Target, &r.TargetPage, &category, &status, &r.SearchText); err != nil {
			return models.Snapshot{}, nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Category = models.Category(category)
		r.Status = models.Status(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("failed to read records: %w", err)
	}

	return s, records, nil
}

// ListSnapshots returns all stored snapshots, newest first
func (db *DB) ListSnapshots() ([]models.Snapshot, error) {
	rows, err := db.conn.Query(selectSnapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var s models.Snapshot
		var importedAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.Screen, &s.Source, &importedAt, &s.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.ImportedAt, _ = parseTimestamp(importedAt)
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// DeleteSnapshot removes a snapshot and its records
func (db *DB) DeleteSnapshot(name string) error {
	var id int64
	err := db.conn.QueryRow(selectSnapshotID, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNoSnapshot, name)
	}
	if err != nil {
		return fmt.Errorf("failed to look up snapshot: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteSnapshotRecords, id); err != nil {
		return fmt.Errorf("failed to delete snapshot records: %w", err)
	}
	if _, err := tx.Exec(deleteSnapshot, id); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return tx.Commit()
}

// parseTimestamp parses SQLite timestamp formats
func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}
