// Package sqlite provides a SQLite backed core.TrialStore. Record series are
// stored as schema-versioned JSON payloads, one row per trial and series,
// using the pure Go driver so builds stay cgo-free.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/netsim/core"
	"github.com/hupe1980/netsim/trial"
)

// Store persists trial record series in a SQLite database. Init must be
// called before use; all methods are safe for concurrent access.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// Compile-time interface check.
var _ core.TrialStore = (*Store)(nil)

// New constructs a store writing to the SQLite database at path. Use Init to
// open the database and create the schema.
func New(path string) *Store {
	return &Store{path: path}
}

// Init opens the database, verifies connectivity and creates the tables.
// Calling Init on an already initialized store is a no-op.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// SaveStates upserts the state record series for trialID.
func (s *Store) SaveStates(ctx context.Context, trialID string, recs []core.StateRecord) error {
	if trialID == "" {
		return core.ErrMissingTrialID
	}

	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := trial.EncodeStates(trialID, recs)
	if err != nil {
		return fmt.Errorf("encode states for trial %s: %w", trialID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO trial_states (trial_id, schema_version, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(trial_id) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload
	`, trialID, trial.CurrentSchemaVersion, payload)
	return err
}

// States reads back the state record series for trialID. A trial that was
// never saved reports absence, not an error.
func (s *Store) States(ctx context.Context, trialID string) ([]core.StateRecord, bool, error) {
	if trialID == "" {
		return nil, false, core.ErrMissingTrialID
	}

	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM trial_states WHERE trial_id = ?`, trialID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	recs, err := trial.DecodeStates(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode states for trial %s: %w", trialID, err)
	}
	return recs, true, nil
}

// SaveTopologies upserts the topology record series for trialID.
func (s *Store) SaveTopologies(ctx context.Context, trialID string, recs []core.TopologyRecord) error {
	if trialID == "" {
		return core.ErrMissingTrialID
	}

	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := trial.EncodeTopologies(trialID, recs)
	if err != nil {
		return fmt.Errorf("encode topologies for trial %s: %w", trialID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO trial_topologies (trial_id, schema_version, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(trial_id) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload
	`, trialID, trial.CurrentSchemaVersion, payload)
	return err
}

// Topologies reads back the topology record series for trialID. A trial that
// was never saved reports absence, not an error.
func (s *Store) Topologies(ctx context.Context, trialID string) ([]core.TopologyRecord, bool, error) {
	if trialID == "" {
		return nil, false, core.ErrMissingTrialID
	}

	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM trial_topologies WHERE trial_id = ?`, trialID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	recs, err := trial.DecodeTopologies(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode topologies for trial %s: %w", trialID, err)
	}
	return recs, true, nil
}

// Trials returns the ids of every trial with at least one saved series, in
// ascending order.
func (s *Store) Trials(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT trial_id FROM trial_states
		UNION
		SELECT trial_id FROM trial_topologies
		ORDER BY trial_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the database handle. Closing an uninitialized store is a
// no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS trial_states (
			trial_id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS trial_topologies (
			trial_id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
