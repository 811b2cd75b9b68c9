package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/salesboard/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "snapshots.db"

// Store is a SQLite-based storage that exposes its tables through
// store interface wrappers.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.salesboard/data/snapshots.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".salesboard", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SnapshotStore returns a SnapshotStore interface backed by this store.
func (s *Store) SnapshotStore() driven.SnapshotStore {
	return &snapshotStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_snapshots.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Snapshot Store ====================

// snapshotStore implements driven.SnapshotStore.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// Save stores or replaces a snapshot. A replaced snapshot keeps its
// position in the history.
func (s *snapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	payloadJSON, err := json.Marshal(snapshot.Payload)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	configJSON, err := json.Marshal(snapshot.Source.Config)
	if err != nil {
		return fmt.Errorf("marshalling source config: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, source_type, source_location, source_config, payload, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_type = excluded.source_type,
			source_location = excluded.source_location,
			source_config = excluded.source_config,
			payload = excluded.payload,
			row_count = excluded.row_count,
			created_at = excluded.created_at
	`, snapshot.ID, string(snapshot.Source.Type), snapshot.Source.Location, string(configJSON),
		string(payloadJSON), snapshot.RowCount, snapshot.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by ID.
func (s *snapshotStore) Get(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_type, source_location, source_config, payload, row_count, created_at
		FROM snapshots WHERE id = ?
	`, id)
	return scanSnapshot(row)
}

// Latest returns the most recently saved snapshot.
func (s *snapshotStore) Latest(ctx context.Context) (*domain.Snapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_type, source_location, source_config, payload, row_count, created_at
		FROM snapshots ORDER BY seq DESC LIMIT 1
	`)
	return scanSnapshot(row)
}

// List returns snapshot descriptions, newest first. Payloads are not loaded.
func (s *snapshotStore) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_type, source_location, source_config, row_count, created_at
		FROM snapshots ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	infos := make([]domain.SnapshotInfo, 0)
	for rows.Next() {
		var info domain.SnapshotInfo
		var sourceType, configJSON string
		var createdAt sql.NullTime
		if err := rows.Scan(&info.ID, &sourceType, &info.Source.Location, &configJSON,
			&info.RowCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}

		info.Source.Type = domain.SourceType(sourceType)
		if err := unmarshalConfig(configJSON, &info.Source); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			info.CreatedAt = createdAt.Time
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}

	return infos, nil
}

// Delete removes a snapshot.
func (s *snapshotStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

func scanSnapshot(row *sql.Row) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	var sourceType, configJSON, payloadJSON string
	var createdAt sql.NullTime
	if err := row.Scan(&snapshot.ID, &sourceType, &snapshot.Source.Location, &configJSON,
		&payloadJSON, &snapshot.RowCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	snapshot.Source.Type = domain.SourceType(sourceType)
	if err := unmarshalConfig(configJSON, &snapshot.Source); err != nil {
		return nil, err
	}

	// Numbers stay json.Number so integers and decimals survive verbatim.
	dec := json.NewDecoder(strings.NewReader(payloadJSON))
	dec.UseNumber()
	if err := dec.Decode(&snapshot.Payload); err != nil {
		return nil, fmt.Errorf("unmarshaling payload: %w", err)
	}

	if createdAt.Valid {
		snapshot.CreatedAt = createdAt.Time
	}
	return &snapshot, nil
}

func unmarshalConfig(configJSON string, source *domain.Source) error {
	if configJSON == "" || configJSON == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
		return fmt.Errorf("unmarshaling source config: %w", err)
	}
	return nil
}
