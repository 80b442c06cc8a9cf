package exports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
)

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists export archive records.
type Repository struct {
	db DB
}

// NewRepository creates an exports repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a pending archive record.
func (r *Repository) Create(ctx context.Context, requestedBy *string) (*models.ExportArchive, error) {
	const q = `INSERT INTO export_archives (requested_by)
		VALUES ($1)
		RETURNING id, status, created_at`
	a := &models.ExportArchive{RequestedBy: requestedBy}
	if err := r.db.QueryRow(ctx, q, requestedBy).Scan(&a.ID, &a.Status, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID returns an archive record.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExportArchive, error) {
	const q = `SELECT id, status, object_key, object_url, record_count, requested_by, created_at, uploaded_at
		FROM export_archives WHERE id = $1`
	var a models.ExportArchive
	err := r.db.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.Status, &a.ObjectKey, &a.ObjectURL, &a.RecordCount, &a.RequestedBy, &a.CreatedAt, &a.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all archive records, newest first.
func (r *Repository) List(ctx context.Context) ([]models.ExportArchive, error) {
	const q = `SELECT id, status, object_key, object_url, record_count, requested_by, created_at, uploaded_at
		FROM export_archives ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ExportArchive
	for rows.Next() {
		var a models.ExportArchive
		if err := rows.Scan(
			&a.ID, &a.Status, &a.ObjectKey, &a.ObjectURL, &a.RecordCount, &a.RequestedBy, &a.CreatedAt, &a.UploadedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// MarkCompleted records the uploaded object for an archive.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, key, url string, recordCount int) error {
	const q = `UPDATE export_archives
		SET status = $2, object_key = $3, object_url = $4, record_count = $5, uploaded_at = NOW()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id, models.ExportStatusCompleted, key, url, recordCount)
	return err
}

// MarkFailed flags an archive whose upload did not succeed.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE export_archives SET status = $2 WHERE id = $1 AND status = $3`
	_, err := r.db.Exec(ctx, q, id, models.ExportStatusFailed, models.ExportStatusPending)
	return err
}
