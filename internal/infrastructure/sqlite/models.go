package sqlite

import "time"

// CatalogModel represents a row of the catalogs table.
type CatalogModel struct {
	Name      string
	Data      []byte
	Revision  string
	UpdatedAt int64 // Unix timestamp
}

// UpdatedTime returns UpdatedAt as a time.Time.
func (m *CatalogModel) UpdatedTime() time.Time {
	return time.Unix(m.UpdatedAt, 0)
}
