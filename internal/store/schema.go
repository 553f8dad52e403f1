package store

// SQLite schema for a single store file. Each record row carries the same JSON
// payload a JSONL line would; kind is denormalized for ad hoc queries.
const (
	createRecords = `CREATE TABLE IF NOT EXISTS records (
    position INTEGER PRIMARY KEY,
    kind TEXT NOT NULL,
    payload TEXT NOT NULL
);`

	createSaves = `CREATE TABLE IF NOT EXISTS saves (
    save_id TEXT PRIMARY KEY,
    saved_at TEXT NOT NULL,
    record_count INTEGER NOT NULL
);`

	idxRecordsKind = `CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);`
)

// schemaDDL lists every statement run when a store file is opened.
var schemaDDL = []string{
	createRecords,
	createSaves,
	idxRecordsKind,
}

const (
	selectRecords = `SELECT position, kind, payload FROM records ORDER BY position`
	deleteRecords = `DELETE FROM records`
	insertRecord  = `INSERT INTO records (position, kind, payload) VALUES (?, ?, ?)`
	insertSave    = `INSERT INTO saves (save_id, saved_at, record_count) VALUES (?, ?, ?)`
)
