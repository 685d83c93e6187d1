package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/profile"
)

// CatalogStore implements profile.Store using the catalogs table.
type CatalogStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ profile.Store = (*CatalogStore)(nil)

func newCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db, now: time.Now}
}

// Load returns the stored bytes for name, or profile.ErrNotFound.
func (s *CatalogStore) Load(ctx context.Context, name string) ([]byte, error) {
	m, err := s.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.Data, nil
}

// Save upserts data under name and assigns a fresh revision.
func (s *CatalogStore) Save(ctx context.Context, name string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	revision := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalogs (name, data, revision, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			revision = excluded.revision,
			updated_at = excluded.updated_at`,
		name, data, revision, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	log.Debug(log.CatStore, "catalog row saved", "name", name, "revision", revision)
	return nil
}

// Find returns the full row for name, or profile.ErrNotFound.
func (s *CatalogStore) Find(ctx context.Context, name string) (*CatalogModel, error) {
	var m CatalogModel
	err := s.db.QueryRowContext(ctx,
		`SELECT name, data, revision, updated_at FROM catalogs WHERE name = ?`, name,
	).Scan(&m.Name, &m.Data, &m.Revision, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog: %w", err)
	}
	return &m, nil
}

// Revision returns the revision assigned by the last save of name.
func (s *CatalogStore) Revision(ctx context.Context, name string) (string, error) {
	m, err := s.Find(ctx, name)
	if err != nil {
		return "", err
	}
	return m.Revision, nil
}

// Names returns all stored catalog names in alphabetical order.
func (s *CatalogStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM catalogs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan catalog name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes name. Deleting a missing catalog is not an error.
func (s *CatalogStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM catalogs WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete catalog: %w", err)
	}
	return nil
}
