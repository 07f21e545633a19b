// Package store persists builds and analysis results in SQLite.
// The store is append-only: builds and results are written once and never
// mutated, which is what makes concurrent read-side aggregation safe.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/driftline/driftline/pkg/models"
)

// DBFileName is the database file created inside the storage directory.
const DBFileName = "driftline.db"

var (
	// ErrBuildConflict is returned when a build number is re-recorded
	// with different metadata.
	ErrBuildConflict = errors.New("build already recorded with different metadata")
	// ErrResultExists is returned when a (job, build, tool) result is
	// re-ingested with a different snapshot. Re-ingesting an identical
	// snapshot is a silent no-op.
	ErrResultExists = errors.New("result already recorded for this build and tool")
)

// Store is a SQLite-backed build-record store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database under dir in WAL mode.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	path := filepath.Join(dir, DBFileName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordBuild appends a build. Recording the same build twice with
// identical metadata is a no-op; conflicting metadata is rejected.
func (s *Store) RecordBuild(b models.Build) error {
	existing, err := s.Build(b.Job, b.Number)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Status != b.Status || !existing.Timestamp.Equal(b.Timestamp) {
			return fmt.Errorf("%w: %s #%d", ErrBuildConflict, b.Job, b.Number)
		}
		return nil
	}

	_, err = s.db.Exec(
		"INSERT INTO builds (job, number, status, timestamp) VALUES (?, ?, ?, ?)",
		b.Job, b.Number, string(b.Status), b.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record build %s #%d: %w", b.Job, b.Number, err)
	}
	return nil
}

// Build returns the build with the given number, or nil when absent.
func (s *Store) Build(job string, number int) (*models.Build, error) {
	row := s.db.QueryRow(
		"SELECT job, number, status, timestamp FROM builds WHERE job = ? AND number = ?",
		job, number,
	)
	return scanBuild(row)
}

// LastCompletedBuild returns the highest-numbered completed build of a job,
// or nil when the job has no completed builds yet.
func (s *Store) LastCompletedBuild(job string) (*models.Build, error) {
	row := s.db.QueryRow(
		"SELECT job, number, status, timestamp FROM builds WHERE job = ? AND status != ? ORDER BY number DESC LIMIT 1",
		job, string(models.BuildNotBuilt),
	)
	return scanBuild(row)
}

// PreviousBuild returns the completed build immediately before b, or nil
// when b is the oldest.
func (s *Store) PreviousBuild(b *models.Build) (*models.Build, error) {
	row := s.db.QueryRow(
		"SELECT job, number, status, timestamp FROM builds WHERE job = ? AND number < ? AND status != ? ORDER BY number DESC LIMIT 1",
		b.Job, b.Number, string(models.BuildNotBuilt),
	)
	return scanBuild(row)
}

// Builds returns all builds of a job, ascending by number.
func (s *Store) Builds(job string) ([]models.Build, error) {
	rows, err := s.db.Query(
		"SELECT job, number, status, timestamp FROM builds WHERE job = ? ORDER BY number ASC",
		job,
	)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []models.Build
	for rows.Next() {
		b, err := scanBuildRow(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, *b)
	}
	return builds, rows.Err()
}

// Jobs returns all job names present in the store.
func (s *Store) Jobs() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT job FROM builds ORDER BY job")
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []string
	for rows.Next() {
		var j string
		if err := rows.Scan(&j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Tools returns all tool identities that have results for a job.
func (s *Store) Tools(job string) ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT tool FROM results WHERE job = ? ORDER BY tool", job)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	var tools []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

// SaveResult attaches an analysis result to a build. A result for the same
// (job, build, tool) with an identical snapshot hash is a no-op; a different
// snapshot is ErrResultExists since results are immutable once written.
func (s *Store) SaveResult(job string, res *models.AnalysisResult) error {
	var existingHash string
	err := s.db.QueryRow(
		"SELECT snapshot_hash FROM results WHERE job = ? AND build = ? AND tool = ?",
		job, res.Build, res.Tool,
	).Scan(&existingHash)
	switch {
	case err == nil:
		if existingHash == res.SnapshotHash {
			return nil
		}
		return fmt.Errorf("%w: %s #%d %s", ErrResultExists, job, res.Build, res.Tool)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check existing result: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.Exec(
		"INSERT INTO results (job, build, tool, total, snapshot_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		job, res.Build, res.Tool, res.Total, res.SnapshotHash,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	resultID, err := r.LastInsertId()
	if err != nil {
		return fmt.Errorf("result id: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO issues (result_id, fingerprint, severity, category, type, file, start_line, end_line, message, author) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare issues: %w", err)
	}
	defer stmt.Close()

	for _, is := range res.Snapshot.Issues() {
		_, err := stmt.Exec(
			resultID, is.Fingerprint.String(), string(is.Severity),
			is.Category, is.Type, is.File, is.StartLine, is.EndLine,
			is.Message, is.Author,
		)
		if err != nil {
			return fmt.Errorf("save issue %s: %w", is.Fingerprint, err)
		}
	}

	return tx.Commit()
}

// LoadResult returns the analysis result attached to a build for a tool, or
// nil when the build carries none. Absence is a normal outcome, not an error.
func (s *Store) LoadResult(job string, build int, tool string) (*models.AnalysisResult, error) {
	var resultID int64
	var hash string
	err := s.db.QueryRow(
		"SELECT id, snapshot_hash FROM results WHERE job = ? AND build = ? AND tool = ?",
		job, build, tool,
	).Scan(&resultID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT fingerprint, severity, category, type, file, start_line, end_line, message, author FROM issues WHERE result_id = ?",
		resultID,
	)
	if err != nil {
		return nil, fmt.Errorf("load issues: %w", err)
	}
	defer rows.Close()

	var issues []models.Issue
	for rows.Next() {
		var is models.Issue
		var fp, sev string
		if err := rows.Scan(&fp, &sev, &is.Category, &is.Type, &is.File,
			&is.StartLine, &is.EndLine, &is.Message, &is.Author); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		is.Fingerprint, err = models.ParseFingerprint(fp)
		if err != nil {
			return nil, err
		}
		is.Severity = models.Severity(sev)
		issues = append(issues, is)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res := models.NewAnalysisResult(tool, build, models.NewSnapshot(issues...))
	res.SnapshotHash = hash
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row *sql.Row) (*models.Build, error) {
	b, err := scanBuildRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func scanBuildRow(row rowScanner) (*models.Build, error) {
	var b models.Build
	var status, ts string
	if err := row.Scan(&b.Job, &b.Number, &status, &ts); err != nil {
		return nil, err
	}
	b.Status = models.BuildStatus(status)
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parse build timestamp: %w", err)
	}
	b.Timestamp = t
	return &b, nil
}
