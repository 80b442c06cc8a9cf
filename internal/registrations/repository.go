package registrations

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
)

// DB is the subset of pgxpool.Pool the repository uses. pgxmock's
// PgxPoolIface satisfies it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles registration persistence.
type Repository struct {
	db DB
}

// NewRepository creates a registrations repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a registration. The store assigns id and submitted_at;
// both are written back to reg and never mutated afterwards.
func (r *Repository) Create(ctx context.Context, reg *models.Registration) error {
	const q = `INSERT INTO inscricoes_treinamento
		(full_name, corporate_email, department, automation_level, needs_accessibility, accessibility_description, attendance_day, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, submitted_at`
	return r.db.QueryRow(ctx, q,
		reg.FullName, reg.CorporateEmail, reg.Department, reg.AutomationLevel,
		reg.NeedsAccessibility, reg.AccessibilityDescription, reg.AttendanceDay, reg.Notes,
	).Scan(&reg.ID, &reg.SubmittedAt)
}

// ListAll returns every registration ordered by submitted_at descending.
func (r *Repository) ListAll(ctx context.Context) ([]models.Registration, error) {
	const q = `SELECT id, full_name, corporate_email, department, automation_level,
		needs_accessibility, accessibility_description, attendance_day, notes, submitted_at
		FROM inscricoes_treinamento ORDER BY submitted_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(
			&reg.ID, &reg.FullName, &reg.CorporateEmail, &reg.Department, &reg.AutomationLevel,
			&reg.NeedsAccessibility, &reg.AccessibilityDescription, &reg.AttendanceDay, &reg.Notes, &reg.SubmittedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}
