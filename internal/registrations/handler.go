package registrations

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/response"
)

// CreateRequest is the body for POST /inscricoes. The oneof sets mirror the
// fixed option lists in models.
type CreateRequest struct {
	FullName                 string  `json:"full_name" binding:"required,max=100"`
	CorporateEmail           string  `json:"corporate_email" binding:"required,email,max=255"`
	Department               string  `json:"department" binding:"required,oneof=RH TI Vendas Operações Outro"`
	AutomationLevel          string  `json:"automation_level" binding:"required,oneof=Baixo Médio Alto"`
	NeedsAccessibility       bool    `json:"needs_accessibility"`
	AccessibilityDescription *string `json:"accessibility_description"`
	AttendanceDay            string  `json:"attendance_day" binding:"required,oneof=11/12 12/12 13/12"`
	Notes                    *string `json:"notes" binding:"omitempty,max=1000"`
}

// Store persists registrations.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
}

// ChangeNotifier signals watchers that a collection changed.
type ChangeNotifier interface {
	NotifyChanged(collection, op string)
}

// Handler handles registration intake endpoints.
type Handler struct {
	store    Store
	notifier ChangeNotifier
	logger   *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(store Store, notifier ChangeNotifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, notifier: notifier, logger: logger}
}

// Create handles POST /inscricoes. Validation failures return 422 with
// per-field messages and no record is inserted.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := fieldErrors(err); fields != nil {
			response.Invalid(c, fields)
			return
		}
		response.BadRequest(c, "requisição inválida")
		return
	}

	reg := req.toModel()
	if err := h.store.Create(c.Request.Context(), reg); err != nil {
		h.logger.Error("create registration failed", zap.Error(err), zap.String("email", reg.CorporateEmail))
		response.Internal(c, "Erro ao enviar inscrição. Tente novamente mais tarde.")
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyChanged(models.CollectionRegistrations, "INSERT")
	}
	response.Created(c, reg)
}

// Options handles GET /inscricoes/opcoes: the fixed option sets the form renders.
func (h *Handler) Options(c *gin.Context) {
	response.OK(c, gin.H{
		"departments":       models.Departments,
		"automation_levels": models.AutomationLevels,
		"attendance_days":   models.AttendanceDays,
	})
}

// toModel maps the request to a Registration. Optional text is stored as
// NULL when blank, and the accessibility description is dropped whenever
// needs_accessibility is false, no matter what the client sent.
func (req *CreateRequest) toModel() *models.Registration {
	reg := &models.Registration{
		FullName:           req.FullName,
		CorporateEmail:     req.CorporateEmail,
		Department:         req.Department,
		AutomationLevel:    req.AutomationLevel,
		NeedsAccessibility: req.NeedsAccessibility,
		AttendanceDay:      req.AttendanceDay,
	}
	if req.NeedsAccessibility {
		reg.AccessibilityDescription = nilIfBlank(req.AccessibilityDescription)
	}
	reg.Notes = nilIfBlank(req.Notes)
	return reg
}

func nilIfBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
