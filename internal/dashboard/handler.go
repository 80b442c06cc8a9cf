package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/response"
)

// Store reads the full registration set, submitted_at descending.
type Store interface {
	ListAll(ctx context.Context) ([]models.Registration, error)
}

// Handler handles the HR dashboard endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Row is the table-view shape: every field except the internal id and the
// accessibility description.
type Row struct {
	FullName           string    `json:"full_name"`
	CorporateEmail     string    `json:"corporate_email"`
	Department         string    `json:"department"`
	AutomationLevel    string    `json:"automation_level"`
	NeedsAccessibility bool      `json:"needs_accessibility"`
	AttendanceDay      string    `json:"attendance_day"`
	Notes              *string   `json:"notes,omitempty"`
	SubmittedAt        time.Time `json:"submitted_at"`
}

// List handles GET /admin/inscricoes?q=. The filter is applied to the
// response only; total always reflects the full set.
func (h *Handler) List(c *gin.Context) {
	all, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "erro ao carregar inscrições")
		return
	}
	filtered := Filter(all, c.Query("q"))
	rows := make([]Row, 0, len(filtered))
	for _, r := range filtered {
		rows = append(rows, Row{
			FullName:           r.FullName,
			CorporateEmail:     r.CorporateEmail,
			Department:         r.Department,
			AutomationLevel:    r.AutomationLevel,
			NeedsAccessibility: r.NeedsAccessibility,
			AttendanceDay:      r.AttendanceDay,
			Notes:              r.Notes,
			SubmittedAt:        r.SubmittedAt,
		})
	}
	response.OK(c, gin.H{
		"total":         len(all),
		"count":         len(rows),
		"registrations": rows,
	})
}

// Summary handles GET /admin/resumo: aggregates over the full record set.
func (h *Handler) Summary(c *gin.Context) {
	all, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("load summary failed", zap.Error(err))
		response.Internal(c, "erro ao carregar resumo")
		return
	}
	response.OK(c, BuildSummary(all))
}

// Export handles GET /admin/export: the full unfiltered set as a CSV
// download with a fixed filename.
func (h *Handler) Export(c *gin.Context) {
	all, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("export failed", zap.Error(err))
		response.Internal(c, "erro ao exportar inscrições")
		return
	}
	c.Header("Content-Disposition", `attachment; filename=`+ExportFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(ExportCSV(all)))
}
