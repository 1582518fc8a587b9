package store

import (
	"database/sql"
	"time"
)

// EventRecord is one logged gesture event.
type EventRecord struct {
	ID          int64
	SessionID   string
	Kind        string
	Pose        string
	Hand        string
	TimestampMs int64
	Confidence  float64
	CreatedAt   time.Time
}

// EventRepository is an append-only log of gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append adds an event to the log and sets its ID.
func (r *EventRepository) Append(e *EventRecord) error {
	e.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO events (session_id, kind, pose, hand, timestamp_ms, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Kind, e.Pose, e.Hand, e.TimestampMs, e.Confidence, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListBySession returns the events of a session in the order they were
// logged. A limit <= 0 returns all of them.
func (r *EventRepository) ListBySession(sessionID string, limit int) ([]*EventRecord, error) {
	q := `SELECT id, session_id, kind, pose, hand, timestamp_ms, confidence, created_at
		 FROM events WHERE session_id = ? ORDER BY id`
	args := []any{sessionID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*EventRecord
	for rows.Next() {
		e := &EventRecord{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Pose, &e.Hand, &e.TimestampMs, &e.Confidence, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByKind returns how many events of each kind a session logged.
func (r *EventRepository) CountByKind(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM events WHERE session_id = ? GROUP BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Sessions returns the distinct session IDs, most recent first.
func (r *EventRepository) Sessions() ([]string, error) {
	rows, err := r.db.Query(
		`SELECT session_id FROM events GROUP BY session_id ORDER BY MAX(id) DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		sessions = append(sessions, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
