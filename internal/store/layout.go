package store

import (
	"database/sql"
	"errors"
	"time"
)

// PanelLayout represents the saved geometry of a HUD panel.
type PanelLayout struct {
	ID        string
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Z         int
	UpdatedAt time.Time
}

// LayoutRepository provides CRUD operations for panel layouts.
type LayoutRepository struct {
	db *sql.DB
}

// Layouts returns the panel layout repository for this store.
func (s *Store) Layouts() *LayoutRepository {
	return &LayoutRepository{db: s.db}
}

// Save inserts or updates a panel layout.
func (r *LayoutRepository) Save(l *PanelLayout) error {
	l.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO panel_layouts (id, x, y, width, height, z, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			x = excluded.x,
			y = excluded.y,
			width = excluded.width,
			height = excluded.height,
			z = excluded.z,
			updated_at = excluded.updated_at`,
		l.ID, l.X, l.Y, l.Width, l.Height, l.Z, l.UpdatedAt,
	)
	return err
}

// GetByID retrieves a panel layout by its ID.
func (r *LayoutRepository) GetByID(id string) (*PanelLayout, error) {
	l := &PanelLayout{}

	err := r.db.QueryRow(
		`SELECT id, x, y, width, height, z, updated_at
		 FROM panel_layouts WHERE id = ?`,
		id,
	).Scan(&l.ID, &l.X, &l.Y, &l.Width, &l.Height, &l.Z, &l.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return l, nil
}

// List retrieves all panel layouts ordered by z-order, bottom first.
func (r *LayoutRepository) List() ([]*PanelLayout, error) {
	rows, err := r.db.Query(
		`SELECT id, x, y, width, height, z, updated_at
		 FROM panel_layouts ORDER BY z ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var layouts []*PanelLayout
	for rows.Next() {
		l := &PanelLayout{}

		err := rows.Scan(&l.ID, &l.X, &l.Y, &l.Width, &l.Height, &l.Z, &l.UpdatedAt)
		if err != nil {
			return nil, err
		}

		layouts = append(layouts, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return layouts, nil
}

// Delete removes a panel layout by its ID.
func (r *LayoutRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM panel_layouts WHERE id = ?`, id)
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
