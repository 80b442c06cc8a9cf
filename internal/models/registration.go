package models

import (
	"time"

	"github.com/google/uuid"
)

// CollectionRegistrations is the watched collection name for the change feed
// and the backing table name.
const CollectionRegistrations = "inscricoes_treinamento"

// Fixed option sets presented by the registration form. Order matters:
// day-count buckets and the popular-day tiebreak follow AttendanceDays order.
var (
	Departments      = []string{"RH", "TI", "Vendas", "Operações", "Outro"}
	AutomationLevels = []string{"Baixo", "Médio", "Alto"}
	AttendanceDays   = []string{"11/12", "12/12", "13/12"}
)

// Registration is a single training sign-up. ID and SubmittedAt are assigned
// by the store on insert and never change; records are never updated or
// deleted through this service.
type Registration struct {
	ID                       uuid.UUID `json:"id"`
	FullName                 string    `json:"full_name"`
	CorporateEmail           string    `json:"corporate_email"`
	Department               string    `json:"department"`
	AutomationLevel          string    `json:"automation_level"`
	NeedsAccessibility       bool      `json:"needs_accessibility"`
	AccessibilityDescription *string   `json:"accessibility_description,omitempty"`
	AttendanceDay            string    `json:"attendance_day"`
	Notes                    *string   `json:"notes,omitempty"`
	SubmittedAt              time.Time `json:"submitted_at"`
}
