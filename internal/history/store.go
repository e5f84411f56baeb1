package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
)

const driverName = "sqlite"

// Snapshot is one persisted run summary.
type Snapshot struct {
	RunID          string
	Timestamp      time.Time
	Files          int
	Enums          int
	Diagnostics    int
	UnknownMembers int
	Conflicts      int
	Duplicates     int
	ParseFailures  int
	Duration       time.Duration
}

// SnapshotFromResult summarizes an analysis result for persistence.
func SnapshotFromResult(result *analysis.Result) Snapshot {
	snap := Snapshot{
		RunID:       result.RunID,
		Timestamp:   time.Now().UTC(),
		Files:       result.Files,
		Enums:       result.EnumCount,
		Diagnostics: len(result.Diagnostics),
		Duration:    result.Duration,
	}
	for _, d := range result.Diagnostics {
		switch d.Kind {
		case analysis.KindUnknownMember:
			snap.UnknownMembers++
		case analysis.KindConflictingDefinition:
			snap.Conflicts++
		case analysis.KindDuplicateMember:
			snap.Duplicates++
		case analysis.KindParseFailure:
			snap.ParseFailures++
		}
	}
	return snap
}

// Store persists run snapshots in a local SQLite database so successive runs
// can be compared.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveSnapshot(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(snap.RunID) == "" {
		return fmt.Errorf("snapshot run id must not be empty")
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}

	_, err := s.db.Exec(`
INSERT INTO runs (
  run_id, ts_utc, file_count, enum_count, diagnostic_count,
  unknown_member_count, conflict_count, duplicate_count, parse_failure_count,
  duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.RunID,
		snap.Timestamp.UTC().Format(time.RFC3339Nano),
		snap.Files,
		snap.Enums,
		snap.Diagnostics,
		snap.UnknownMembers,
		snap.Conflicts,
		snap.Duplicates,
		snap.ParseFailures,
		snap.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// RecentSnapshots returns up to limit snapshots, newest first.
func (s *Store) RecentSnapshots(limit int) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
SELECT run_id, ts_utc, file_count, enum_count, diagnostic_count,
       unknown_member_count, conflict_count, duplicate_count,
       parse_failure_count, duration_ms
FROM runs ORDER BY ts_utc DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var ts string
		var durationMS int64
		if err := rows.Scan(
			&snap.RunID, &ts, &snap.Files, &snap.Enums, &snap.Diagnostics,
			&snap.UnknownMembers, &snap.Conflicts, &snap.Duplicates,
			&snap.ParseFailures, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			snap.Timestamp = parsed
		}
		snap.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, snap)
	}
	return out, rows.Err()
}
