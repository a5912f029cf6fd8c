// Package sqlite implements the StoreManager port with one SQLite file
// per Galaxy, created lazily under <data-root>/databases.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/douglas-run/douglas/pkg/domain"
	"github.com/douglas-run/douglas/pkg/ports"
)

// Manager maps Galaxy names to store files. It holds no open
// connections itself; handles are opened per call and closed by the
// caller, so two Galaxies can never share a physical store.
type Manager struct {
	root string
}

// NewManager creates a store manager rooted at the data directory.
func NewManager(dataRoot string) *Manager {
	return &Manager{root: dataRoot}
}

var _ ports.StoreManager = (*Manager)(nil)

// Path returns the deterministic store location for a Galaxy.
func (m *Manager) Path(galaxy string) string {
	return filepath.Join(m.root, "databases", galaxy+".db")
}

// Open creates the backing file and parent directory if absent,
// otherwise opens the existing store. Idempotent.
func (m *Manager) Open(ctx context.Context, galaxy string) (ports.GalaxyStore, error) {
	path := m.Path(galaxy)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &domain.StoreError{Galaxy: galaxy, Err: err}
	}

	// busy_timeout guards against a concurrent CLI invocation holding
	// the file; the core itself never shares a connection.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &domain.StoreError{Galaxy: galaxy, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &domain.StoreError{Galaxy: galaxy, Err: err}
	}

	return &Store{db: db, galaxy: galaxy}, nil
}

// Reset deletes the Galaxy's entire store file. A store that was never
// created is not an error.
func (m *Manager) Reset(galaxy string) error {
	err := os.Remove(m.Path(galaxy))
	if err != nil && !os.IsNotExist(err) {
		return &domain.StoreError{Galaxy: galaxy, Err: err}
	}
	return nil
}

// Store is an open handle on one Galaxy's SQLite file.
type Store struct {
	db     *sql.DB
	galaxy string
}

var _ ports.GalaxyStore = (*Store)(nil)

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureTable creates the model's table if it does not already exist.
// Safe to call repeatedly; existing rows are never touched.
func (s *Store) EnsureTable(ctx context.Context, model domain.ModelSpec) error {
	table, err := model.Table()
	if err != nil {
		return &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	_, ddl := model.Type.ColumnSpec()

	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		%s
	)`, table, ddl)

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	return nil
}

// Insert persists one payload as a single atomic statement and returns
// the assigned id. Strings are stored as-is; anything else is
// serialized to JSON text first.
func (s *Store) Insert(ctx context.Context, model domain.ModelSpec, payload any) (int64, error) {
	table, err := model.Table()
	if err != nil {
		return 0, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	column, _ := model.Type.ColumnSpec()

	content, err := serialize(payload)
	if err != nil {
		return 0, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", table, column), content)
	if err != nil {
		return 0, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	return id, nil
}

// List returns every record of the model, oldest first.
func (s *Store) List(ctx context.Context, model domain.ModelSpec) ([]domain.Record, error) {
	table, err := model.Table()
	if err != nil {
		return nil, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	column, _ := model.Type.ColumnSpec()

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, created_at, %s FROM %s ORDER BY id", column, table))
	if err != nil {
		return nil, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		var created string
		if err := rows.Scan(&rec.ID, &created, &rec.Content); err != nil {
			return nil, &domain.StoreError{Galaxy: s.galaxy, Err: err}
		}
		rec.CreatedAt = parseTimestamp(created)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	return records, nil
}

// Delete removes the given record ids and reports how many rows went.
func (s *Store) Delete(ctx context.Context, model domain.ModelSpec, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	table, err := model.Table()
	if err != nil {
		return 0, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", table, placeholders), args...)
	if err != nil {
		return 0, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &domain.StoreError{Galaxy: s.galaxy, Err: err}
	}
	return n, nil
}

func serialize(payload any) (string, error) {
	switch v := payload.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("serializing payload: %w", err)
		}
		return string(b), nil
	}
}

// parseTimestamp handles the formats SQLite emits for
// CURRENT_TIMESTAMP defaults. A zero time means the value was
// unparseable, which only affects display.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
