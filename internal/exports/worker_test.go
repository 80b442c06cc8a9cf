package exports

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/queue"
)

type fakeArchives struct {
	archive   *models.ExportArchive
	completed []uuid.UUID
	failed    []uuid.UUID
	lastKey   string
	lastCount int
}

func (f *fakeArchives) GetByID(ctx context.Context, id uuid.UUID) (*models.ExportArchive, error) {
	if f.archive == nil || f.archive.ID != id {
		return nil, errors.New("not found")
	}
	return f.archive, nil
}

func (f *fakeArchives) MarkCompleted(ctx context.Context, id uuid.UUID, key, url string, recordCount int) error {
	f.completed = append(f.completed, id)
	f.lastKey = key
	f.lastCount = recordCount
	return nil
}

func (f *fakeArchives) MarkFailed(ctx context.Context, id uuid.UUID) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeRegs struct {
	recs []models.Registration
	err  error
}

func (f *fakeRegs) ListAll(ctx context.Context) ([]models.Registration, error) {
	return f.recs, f.err
}

type fakeUploader struct {
	key  string
	body string
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key = key
	data, _ := io.ReadAll(body)
	f.body = string(data)
	return "https://bucket/" + key, nil
}

func exportJob(t *testing.T, archiveID uuid.UUID) *queue.Job {
	t.Helper()
	payload, err := json.Marshal(queue.ExportArchivePayload{ArchiveID: archiveID})
	require.NoError(t, err)
	return &queue.Job{ID: "job-1", Type: queue.JobTypeExportArchive, Payload: payload, CreatedAt: time.Now()}
}

func TestProcessorProcess(t *testing.T) {
	archiveID := uuid.New()
	archives := &fakeArchives{archive: &models.ExportArchive{ID: archiveID, Status: models.ExportStatusPending}}
	regs := &fakeRegs{recs: []models.Registration{
		{FullName: "Ana Silva", CorporateEmail: "ana@empresa.com", Department: "TI",
			AutomationLevel: "Alto", AttendanceDay: "12/12", SubmittedAt: time.Now()},
	}}
	uploader := &fakeUploader{}
	p := NewProcessor(archives, regs, uploader, nil, "exports", nil)

	err := p.Process(context.Background(), exportJob(t, archiveID))
	require.NoError(t, err)

	require.Len(t, archives.completed, 1)
	assert.Equal(t, archiveID, archives.completed[0])
	assert.Equal(t, 1, archives.lastCount)
	assert.True(t, strings.HasPrefix(uploader.key, "exports/inscricoes_"))
	assert.True(t, strings.HasSuffix(uploader.key, ".csv"))
	assert.Contains(t, uploader.body, "Nome Completo,")
	assert.Contains(t, uploader.body, `"Ana Silva"`)
}

func TestProcessorSkipsCompletedArchive(t *testing.T) {
	archiveID := uuid.New()
	archives := &fakeArchives{archive: &models.ExportArchive{ID: archiveID, Status: models.ExportStatusCompleted}}
	uploader := &fakeUploader{}
	p := NewProcessor(archives, &fakeRegs{}, uploader, nil, "exports", nil)

	require.NoError(t, p.Process(context.Background(), exportJob(t, archiveID)))
	assert.Empty(t, archives.completed)
	assert.Empty(t, uploader.key)
}

func TestProcessorUnknownJobType(t *testing.T) {
	p := NewProcessor(&fakeArchives{}, &fakeRegs{}, &fakeUploader{}, nil, "exports", nil)
	err := p.Process(context.Background(), &queue.Job{Type: "mystery"})
	assert.Error(t, err)
}

func TestProcessorUploadError(t *testing.T) {
	archiveID := uuid.New()
	archives := &fakeArchives{archive: &models.ExportArchive{ID: archiveID, Status: models.ExportStatusPending}}
	p := NewProcessor(archives, &fakeRegs{}, &fakeUploader{err: errors.New("s3 down")}, nil, "exports", nil)

	err := p.Process(context.Background(), exportJob(t, archiveID))
	assert.Error(t, err)
	assert.Empty(t, archives.completed)
}

func TestProcessorListError(t *testing.T) {
	archiveID := uuid.New()
	archives := &fakeArchives{archive: &models.ExportArchive{ID: archiveID, Status: models.ExportStatusPending}}
	p := NewProcessor(archives, &fakeRegs{err: errors.New("db down")}, &fakeUploader{}, nil, "exports", nil)

	err := p.Process(context.Background(), exportJob(t, archiveID))
	assert.Error(t, err)
}
