package db

// Schema for imported record collections
const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    screen TEXT NOT NULL,
    source TEXT,
    imported_at TEXT DEFAULT CURRENT_TIMESTAMP
);
`

const createSnapshotRecordsTable = `
CREATE TABLE IF NOT EXISTS snapshot_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snapshot_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    record_id TEXT,
    label TEXT,
    target TEXT,
    target_page TEXT,
    category TEXT,
    status TEXT,
    search_text TEXT,
    UNIQUE(snapshot_id, position)
);

CREATE INDEX IF NOT EXISTS idx_snapshot_records_snapshot ON snapshot_records(snapshot_id);
`

const selectSnapshotID = `
SELECT id FROM snapshots WHERE name = ?
`

const deleteSnapshotRecords = `
DELETE FROM snapshot_records WHERE snapshot_id = ?
`

const deleteSnapshot = `
DELETE FROM snapshots WHERE id = ?
`

const insertSnapshot = `
INSERT INTO snapshots (name, screen, source, imported_at) VALUES (?, ?, ?, ?)
`

const insertSnapshotRecord = `
INSERT INTO snapshot_records (
    snapshot_id, position, record_id, label, target, target_page, category, status, search_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectSnapshot = `
SELECT s.id, s.name, s.screen, COALESCE(s.source, ''), COALESCE(s.imported_at, ''),
       (SELECT COUNT(*) FROM snapshot_records r WHERE r.snapshot_id = s.id)
FROM snapshots s
WHERE s.name = ?
`

const selectSnapshots = `
SELECT s.id, s.name, s.screen, COALESCE(s.source, ''), COALESCE(s.imported_at, ''),
       (SELECT COUNT(*) FROM snapshot_records r WHERE r.snapshot_id = s.id)
FROM snapshots s
ORDER BY s.imported_at DESC, s.name
`

const selectSnapshotRecords = `
SELECT COALESCE(record_id, ''), COALESCE(label, ''), COALESCE(target, ''), COALESCE(target_page, ''),
       COALESCE(category, ''), COALESCE(status, ''), COALESCE(search_text, '')
FROM snapshot_records
WHERE snapshot_id = ?
ORDER BY position
`
