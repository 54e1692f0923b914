// Package store provides the durable alarm store backed by SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/clockrobustus/clockd/internal/types"
)

// Store is a durable mapping from alarm id to alarm record. A single Store
// is shared between the command API and the tick loop; access follows
// single-writer/multiple-reader locking so that a tick's read never observes
// a half-applied mutation.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open opens (creating if necessary) the alarm database at dbPath and
// ensures the schema exists. Pass ":memory:" for an ephemeral store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// migrate creates the alarms table if it does not exist. The active_days
// column stores the weekday bitmask as a plain integer.
func (s *Store) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS alarms (
			id INTEGER PRIMARY KEY,
			active_days INTEGER NOT NULL,
			hour INTEGER NOT NULL,
			minute INTEGER NOT NULL,
			second INTEGER NOT NULL
		)
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create alarms table: %w", err)
	}
	return nil
}

// List returns all stored alarms ordered by id. An empty store yields an
// empty slice, never an error.
func (s *Store) List(ctx context.Context) ([]types.Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, active_days, hour, minute, second FROM alarms ORDER BY id`)
	if err != nil {
		return nil, types.Errorf(types.ErrUnavailable, "failed to query alarms: %v", err)
	}
	defer rows.Close()

	alarms := []types.Alarm{}
	for rows.Next() {
		var id int64
		var activeDays uint8
		var alarm types.Alarm

		if err := rows.Scan(&id, &activeDays, &alarm.Hour, &alarm.Minute, &alarm.Second); err != nil {
			return nil, types.Errorf(types.ErrUnavailable, "failed to scan alarm row: %v", err)
		}
		alarm.ID = &id
		alarm.ActiveDays = types.ActiveDays(activeDays)
		alarms = append(alarms, alarm)
	}
	if err := rows.Err(); err != nil {
		return nil, types.Errorf(types.ErrUnavailable, "failed to read alarm rows: %v", err)
	}

	return alarms, nil
}

// Upsert validates candidate and writes it to the store. With a nil id, a
// fresh id is allocated and the stored record (including the new id) is
// returned. With a non-nil id, the existing record is replaced wholesale;
// a missing id is a NotFound error. Validation failures leave the store
// untouched.
func (s *Store) Upsert(ctx context.Context, candidate types.Alarm) (types.Alarm, error) {
	if err := candidate.Validate(); err != nil {
		return types.Alarm{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate.ID == nil {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO alarms (active_days, hour, minute, second) VALUES (?, ?, ?, ?)`,
			uint8(candidate.ActiveDays), candidate.Hour, candidate.Minute, candidate.Second)
		if err != nil {
			return types.Alarm{}, types.Errorf(types.ErrUnavailable, "failed to insert alarm: %v", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return types.Alarm{}, types.Errorf(types.ErrUnavailable, "failed to read new alarm id: %v", err)
		}
		candidate.ID = &id
		return candidate, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE alarms SET active_days = ?, hour = ?, minute = ?, second = ? WHERE id = ?`,
		uint8(candidate.ActiveDays), candidate.Hour, candidate.Minute, candidate.Second, *candidate.ID)
	if err != nil {
		return types.Alarm{}, types.Errorf(types.ErrUnavailable, "failed to update alarm: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return types.Alarm{}, types.Errorf(types.ErrUnavailable, "failed to check update result: %v", err)
	}
	if affected == 0 {
		return types.Alarm{}, types.Errorf(types.ErrNotFound, "no alarm with id %d", *candidate.ID)
	}

	return candidate, nil
}

// Delete removes the alarm with the given id. Deleting an id that is not
// present (including a second delete of the same id) is a NotFound error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM alarms WHERE id = ?`, id)
	if err != nil {
		return types.Errorf(types.ErrUnavailable, "failed to delete alarm: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return types.Errorf(types.ErrUnavailable, "failed to check delete result: %v", err)
	}
	if affected == 0 {
		return types.Errorf(types.ErrNotFound, "no alarm with id %d", id)
	}

	return nil
}

// Count returns the number of stored alarms.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alarms`).Scan(&n); err != nil {
		return 0, types.Errorf(types.ErrUnavailable, "failed to count alarms: %v", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
