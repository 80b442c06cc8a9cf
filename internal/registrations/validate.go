package registrations

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// jsonNames maps CreateRequest struct fields to their JSON names for
// field-level error reporting.
var jsonNames = map[string]string{
	"FullName":        "full_name",
	"CorporateEmail":  "corporate_email",
	"Department":      "department",
	"AutomationLevel": "automation_level",
	"AttendanceDay":   "attendance_day",
	"Notes":           "notes",
}

var fieldMessages = map[string]map[string]string{
	"full_name": {
		"required": "Nome completo é obrigatório",
		"max":      "Nome completo deve ter no máximo 100 caracteres",
	},
	"corporate_email": {
		"required": "E-mail é obrigatório",
		"email":    "E-mail inválido",
		"max":      "E-mail deve ter no máximo 255 caracteres",
	},
	"department": {
		"required": "Departamento é obrigatório",
		"oneof":    "Departamento inválido",
	},
	"automation_level": {
		"required": "Nível de familiaridade é obrigatório",
		"oneof":    "Nível de familiaridade inválido",
	},
	"attendance_day": {
		"required": "Dia de participação é obrigatório",
		"oneof":    "Dia de participação inválido",
	},
	"notes": {
		"max": "Observações deve ter no máximo 1000 caracteres",
	},
}

// fieldErrors converts a binding error into a per-field message map keyed by
// JSON field name. Returns nil when err carries no field-level detail.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name, ok := jsonNames[fe.StructField()]
		if !ok {
			continue
		}
		if msg, ok := fieldMessages[name][fe.Tag()]; ok {
			out[name] = msg
		} else {
			out[name] = "Valor inválido"
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
