package registrations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
)

func TestRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	submitted := time.Now()
	desc := "intérprete de libras"

	reg := &models.Registration{
		FullName:                 "Ana Silva",
		CorporateEmail:           "ana@empresa.com",
		Department:               "TI",
		AutomationLevel:          "Alto",
		NeedsAccessibility:       true,
		AccessibilityDescription: &desc,
		AttendanceDay:            "12/12",
	}

	mock.ExpectQuery(`INSERT INTO inscricoes_treinamento`).
		WithArgs(reg.FullName, reg.CorporateEmail, reg.Department, reg.AutomationLevel,
			reg.NeedsAccessibility, reg.AccessibilityDescription, reg.AttendanceDay, reg.Notes).
		WillReturnRows(pgxmock.NewRows([]string{"id", "submitted_at"}).AddRow(id, submitted))

	repo := NewRepository(mock)
	require.NoError(t, repo.Create(context.Background(), reg))

	assert.Equal(t, id, reg.ID)
	assert.Equal(t, submitted, reg.SubmittedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO inscricoes_treinamento`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("insert failed"))

	repo := NewRepository(mock)
	err = repo.Create(context.Background(), &models.Registration{})
	assert.Error(t, err)
}

func TestRepositoryListAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	newer := time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	rows := pgxmock.NewRows([]string{
		"id", "full_name", "corporate_email", "department", "automation_level",
		"needs_accessibility", "accessibility_description", "attendance_day", "notes", "submitted_at",
	}).
		AddRow(uuid.New(), "Ana Silva", "ana@empresa.com", "TI", "Alto", false, nil, "12/12", nil, newer).
		AddRow(uuid.New(), "Bruno Reis", "bruno@empresa.com", "RH", "Baixo", true, strPtr("rampa"), "11/12", strPtr("obs"), older)

	mock.ExpectQuery(`FROM inscricoes_treinamento ORDER BY submitted_at DESC`).
		WillReturnRows(rows)

	repo := NewRepository(mock)
	list, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana Silva", list[0].FullName)
	assert.Nil(t, list[0].AccessibilityDescription)
	require.NotNil(t, list[1].Notes)
	assert.Equal(t, "obs", *list[1].Notes)
	assert.True(t, list[0].SubmittedAt.After(list[1].SubmittedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListAllEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM inscricoes_treinamento`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "full_name", "corporate_email", "department", "automation_level",
			"needs_accessibility", "accessibility_description", "attendance_day", "notes", "submitted_at",
		}))

	repo := NewRepository(mock)
	list, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
