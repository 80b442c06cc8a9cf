package exports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/dashboard"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/queue"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/storage"
)

// ProcessorArchiveStore is the archive persistence the processor needs.
type ProcessorArchiveStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExportArchive, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, key, url string, recordCount int) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// RegistrationStore reads the full registration set for serialization.
type RegistrationStore interface {
	ListAll(ctx context.Context) ([]models.Registration, error)
}

// Uploader streams an object to the exports bucket.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
}

// Processor runs export archival jobs: serialize the current registration
// snapshot as CSV, upload it to S3, record the result.
type Processor struct {
	archives  ProcessorArchiveStore
	regs      RegistrationStore
	uploader  Uploader
	queue     *queue.Queue
	keyPrefix string
	logger    *zap.Logger
}

// NewProcessor creates an export archival processor.
func NewProcessor(archives ProcessorArchiveStore, regs RegistrationStore, uploader Uploader, q *queue.Queue, keyPrefix string, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{archives: archives, regs: regs, uploader: uploader, queue: q, keyPrefix: keyPrefix, logger: logger}
}

// Process executes one export archival job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeExportArchive {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ExportArchivePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	archive, err := p.archives.GetByID(ctx, payload.ArchiveID)
	if err != nil || archive == nil {
		return fmt.Errorf("archive not found: %s", payload.ArchiveID)
	}
	if archive.Status == models.ExportStatusCompleted {
		p.logger.Info("archive already completed", zap.String("archive_id", archive.ID.String()))
		return nil
	}

	recs, err := p.regs.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load registrations: %w", err)
	}
	data := dashboard.ExportCSV(recs)

	key := storage.ExportKey(p.keyPrefix, time.Now())
	url, err := p.uploader.Upload(ctx, key, "text/csv; charset=utf-8", strings.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}

	if err := p.archives.MarkCompleted(ctx, archive.ID, key, url, len(recs)); err != nil {
		p.logger.Error("mark archive completed failed", zap.Error(err), zap.String("archive_id", archive.ID.String()))
		return fmt.Errorf("update db: %w", err)
	}

	p.logger.Info("export archive completed", zap.String("archive_id", archive.ID.String()), zap.String("s3_key", key), zap.Int("records", len(recs)))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error. Jobs that
// exhaust their retries are flagged failed and land in the DLQ.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("export worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if job.Attempt+1 >= queue.MaxRetries {
				p.markJobFailed(ctx, job)
			}
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}

func (p *Processor) markJobFailed(ctx context.Context, job *queue.Job) {
	var payload queue.ExportArchivePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return
	}
	if err := p.archives.MarkFailed(ctx, payload.ArchiveID); err != nil {
		p.logger.Error("mark archive failed errored", zap.Error(err), zap.String("archive_id", payload.ArchiveID.String()))
	}
}
