package store

// schemaVersion is the current schema version. Increment when adding migrations.
const schemaVersion = 2

// migrations maps version numbers to SQL statements that bring the schema
// from (version-1) to (version). Version 1 is the initial schema.
var migrations = map[int]string{
	1: `
-- Raw git query output keyed by query kind and arguments. Every query is
-- addressed by commit hash, so entries never go stale.
CREATE TABLE IF NOT EXISTS query_cache (
	kind       TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (kind, key)
);
`,
	2: `
-- One attribution run over a set of files at a commit.
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT    PRIMARY KEY,
	repo_path   TEXT    NOT NULL,
	commit_hash TEXT    NOT NULL,
	threshold   REAL    NOT NULL,
	since       TEXT    NOT NULL DEFAULT '',
	started_at  TEXT    NOT NULL
);

-- Per-line verdicts of a run.
CREATE TABLE IF NOT EXISTS line_attributions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	file_path   TEXT    NOT NULL,
	line_number INTEGER NOT NULL,
	author      TEXT    NOT NULL,
	commit_hash TEXT    NOT NULL,
	full_credit INTEGER NOT NULL,
	skipped     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_line_attributions_run ON line_attributions(run_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_line_attributions_line ON line_attributions(run_id, file_path, line_number);
`,
}
