package cache

// SchemaVersion is the version of the conversion cache schema.
const SchemaVersion = 1

// Schema creates the cache tables.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS conversions (
	id         TEXT PRIMARY KEY,
	key_hash   TEXT NOT NULL UNIQUE,
	expression TEXT NOT NULL,
	options    TEXT NOT NULL,
	output     TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	last_used  INTEGER NOT NULL,
	hits       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_conversions_last_used ON conversions(last_used);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the newest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`

const selectEntry = `
SELECT id, key_hash, expression, options, output, created_at, last_used, hits
FROM conversions WHERE key_hash = ?`

const touchEntry = `UPDATE conversions SET last_used = ?, hits = hits + 1 WHERE key_hash = ?`

const upsertEntry = `
INSERT INTO conversions (id, key_hash, expression, options, output, created_at, last_used, hits)
VALUES (?, ?, ?, ?, ?, ?, ?, 0)
ON CONFLICT (key_hash) DO UPDATE SET
	output = excluded.output,
	last_used = excluded.last_used`

const statsQuery = `
SELECT COUNT(*), COALESCE(SUM(hits), 0), COALESCE(MIN(created_at), 0), COALESCE(MAX(created_at), 0)
FROM conversions`

const pruneByAge = `DELETE FROM conversions WHERE last_used < ?`

const pruneByCount = `
DELETE FROM conversions WHERE id NOT IN (
	SELECT id FROM conversions ORDER BY last_used DESC, created_at DESC LIMIT ?
)`

const clearEntries = `DELETE FROM conversions`
