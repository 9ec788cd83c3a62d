package store

import (
	"database/sql"
	"errors"
	"time"
)

// Snapshot represents snapshot metadata stored in the database. The
// image itself lives on disk at Path.
type Snapshot struct {
	ID        string
	Label     string
	Score     float64
	Path      string
	Width     int
	Height    int
	CreatedAt time.Time
}

// SnapshotRepository provides CRUD operations for snapshot metadata.
type SnapshotRepository struct {
	db *sql.DB
}

// Snapshots returns the snapshot repository for this store.
func (s *Store) Snapshots() *SnapshotRepository {
	return &SnapshotRepository{db: s.db}
}

// Create inserts snapshot metadata into the database.
func (r *SnapshotRepository) Create(sn *Snapshot) error {
	if sn.CreatedAt.IsZero() {
		sn.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO snapshots (id, label, score, path, width, height, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sn.ID, sn.Label, sn.Score, sn.Path, sn.Width, sn.Height, sn.CreatedAt,
	)
	return err
}

// GetByID retrieves snapshot metadata by its ID.
func (r *SnapshotRepository) GetByID(id string) (*Snapshot, error) {
	sn := &Snapshot{}

	err := r.db.QueryRow(
		`SELECT id, label, score, path, width, height, created_at
		 FROM snapshots WHERE id = ?`,
		id,
	).Scan(&sn.ID, &sn.Label, &sn.Score, &sn.Path, &sn.Width, &sn.Height, &sn.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sn, nil
}

// List retrieves all snapshots, newest first.
func (r *SnapshotRepository) List() ([]*Snapshot, error) {
	rows, err := r.db.Query(
		`SELECT id, label, score, path, width, height, created_at
		 FROM snapshots ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListByLabel retrieves all snapshots with the given label, newest first.
func (r *SnapshotRepository) ListByLabel(label string) ([]*Snapshot, error) {
	rows, err := r.db.Query(
		`SELECT id, label, score, path, width, height, created_at
		 FROM snapshots WHERE label = ? ORDER BY created_at DESC`,
		label,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// Delete removes snapshot metadata by its ID.
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
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

func scanSnapshots(rows *sql.Rows) ([]*Snapshot, error) {
	var snapshots []*Snapshot
	for rows.Next() {
		sn := &Snapshot{}

		err := rows.Scan(&sn.ID, &sn.Label, &sn.Score, &sn.Path, &sn.Width, &sn.Height, &sn.CreatedAt)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, sn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
