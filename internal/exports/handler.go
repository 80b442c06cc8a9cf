package exports

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/queue"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/response"
)

// ArchiveRequest is the optional body for POST /admin/export/arquivar.
type ArchiveRequest struct {
	RequestedBy *string `json:"requested_by"`
}

// Enqueuer pushes archive jobs onto the worker queue.
type Enqueuer interface {
	EnqueueExportArchive(ctx context.Context, payload queue.ExportArchivePayload) error
}

// Presigner signs download URLs for archived objects.
type Presigner interface {
	GeneratePresignedDownloadURL(ctx context.Context, key string) (string, error)
}

// ArchiveStore persists archive records for the handler.
type ArchiveStore interface {
	Create(ctx context.Context, requestedBy *string) (*models.ExportArchive, error)
	List(ctx context.Context) ([]models.ExportArchive, error)
}

// Handler handles export archival endpoints.
type Handler struct {
	store   ArchiveStore
	queue   Enqueuer
	presign Presigner
	logger  *zap.Logger
}

// NewHandler creates an exports handler. presign may be nil when S3 is not
// configured; listed archives then carry no download URL.
func NewHandler(store ArchiveStore, q Enqueuer, presign Presigner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, queue: q, presign: presign, logger: logger}
}

// Archive handles POST /admin/export/arquivar: creates a pending archive
// record and queues the snapshot job.
func (h *Handler) Archive(c *gin.Context) {
	var req ArchiveRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	archive, err := h.store.Create(c.Request.Context(), req.RequestedBy)
	if err != nil {
		h.logger.Error("create export archive failed", zap.Error(err))
		response.Internal(c, "erro ao agendar exportação")
		return
	}
	if err := h.queue.EnqueueExportArchive(c.Request.Context(), queue.ExportArchivePayload{ArchiveID: archive.ID}); err != nil {
		h.logger.Error("enqueue export archive failed", zap.Error(err), zap.String("archive_id", archive.ID.String()))
		response.ServiceUnavailable(c, "fila de exportação indisponível")
		return
	}
	response.Accepted(c, archive)
}

// archiveView is an ExportArchive plus a short-lived download URL.
type archiveView struct {
	models.ExportArchive
	DownloadURL *string `json:"download_url,omitempty"`
}

// List handles GET /admin/export/arquivos.
func (h *Handler) List(c *gin.Context) {
	archives, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list export archives failed", zap.Error(err))
		response.Internal(c, "erro ao listar exportações")
		return
	}
	views := make([]archiveView, 0, len(archives))
	for _, a := range archives {
		v := archiveView{ExportArchive: a}
		if h.presign != nil && a.ObjectKey != nil {
			if url, err := h.presign.GeneratePresignedDownloadURL(c.Request.Context(), *a.ObjectKey); err == nil {
				v.DownloadURL = &url
			}
		}
		views = append(views, v)
	}
	response.OK(c, gin.H{"archives": views})
}
