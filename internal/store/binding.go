package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicate is returned when a binding already exists for the same
// event kind and hand.
var ErrDuplicate = errors.New("duplicate binding")

// Binding maps a gesture event kind to a plugin action. An empty Hand
// matches events from either hand.
type Binding struct {
	ID         string
	EventKind  string
	Hand       string
	PluginName string
	ActionName string
	Config     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

const bindingColumns = `id, event_kind, hand, plugin_name, action_name, config, enabled, created_at`

// Create inserts a new binding. An empty ID is filled with a new UUID.
func (r *BindingRepository) Create(b *Binding) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()

	config := b.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO bindings (`+bindingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.EventKind, b.Hand, b.PluginName, b.ActionName, string(config), b.Enabled, b.CreatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(
		`SELECT `+bindingColumns+` FROM bindings WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// ForEvent returns the enabled bindings that match an event of the given
// kind from the given hand.
func (r *BindingRepository) ForEvent(kind, hand string) ([]*Binding, error) {
	return r.query(
		`SELECT `+bindingColumns+` FROM bindings
		 WHERE event_kind = ? AND (hand = '' OR hand = ?) AND enabled = 1
		 ORDER BY hand DESC, created_at`,
		kind, hand,
	)
}

// List retrieves all bindings.
func (r *BindingRepository) List() ([]*Binding, error) {
	return r.query(`SELECT ` + bindingColumns + ` FROM bindings ORDER BY created_at DESC`)
}

// Update updates an existing binding.
func (r *BindingRepository) Update(b *Binding) error {
	config := b.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	enabled := 0
	if b.Enabled {
		enabled = 1
	}

	result, err := r.db.Exec(
		`UPDATE bindings SET event_kind = ?, hand = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		b.EventKind, b.Hand, b.PluginName, b.ActionName, string(config), enabled, b.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BindingRepository) query(q string, args ...any) ([]*Binding, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bindings, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBinding(row scanner) (*Binding, error) {
	b := &Binding{}
	var config string
	var enabled int

	err := row.Scan(&b.ID, &b.EventKind, &b.Hand, &b.PluginName, &b.ActionName, &config, &enabled, &b.CreatedAt)
	if err != nil {
		return nil, err
	}

	b.Config = json.RawMessage(config)
	b.Enabled = enabled != 0
	return b, nil
}
