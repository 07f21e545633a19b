package store

// schemaSQL defines the build-record database.
// Tables:
//   - builds: one row per CI build, append-only
//   - results: one analysis result per (job, build, tool)
//   - issues: the issue snapshot belonging to a result
const schemaSQL = `
CREATE TABLE IF NOT EXISTS builds (
    job        TEXT NOT NULL,
    number     INTEGER NOT NULL CHECK (number > 0),
    status     TEXT NOT NULL,
    timestamp  TEXT NOT NULL,
    PRIMARY KEY (job, number)
);

CREATE TABLE IF NOT EXISTS results (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    job           TEXT NOT NULL,
    build         INTEGER NOT NULL,
    tool          TEXT NOT NULL,
    total         INTEGER NOT NULL,
    snapshot_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL,
    UNIQUE (job, build, tool),
    FOREIGN KEY (job, build) REFERENCES builds (job, number)
);

CREATE TABLE IF NOT EXISTS issues (
    result_id   INTEGER NOT NULL REFERENCES results (id) ON DELETE CASCADE,
    fingerprint TEXT NOT NULL,
    severity    TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT '',
    type        TEXT NOT NULL DEFAULT '',
    file        TEXT NOT NULL,
    start_line  INTEGER NOT NULL DEFAULT 0,
    end_line    INTEGER NOT NULL DEFAULT 0,
    message     TEXT NOT NULL DEFAULT '',
    author      TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (result_id, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_results_lookup ON results (job, tool, build DESC);
CREATE INDEX IF NOT EXISTS idx_builds_job ON builds (job, number DESC);
`

// initSchema creates tables and indexes if they don't exist.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
