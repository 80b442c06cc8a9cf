package dashboard

import (
	"strings"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
)

// ExportFilename is the fixed download name for the HR CSV export.
const ExportFilename = "inscricoes_treinamento.csv"

// ExportDateLayout renders submitted_at as a pt-BR date-time.
const ExportDateLayout = "02/01/2006 15:04:05"

var csvHeader = []string{
	"Nome Completo",
	"E-mail",
	"Departamento",
	"Nível Automação",
	"Acessibilidade",
	"Descrição Acessibilidade",
	"Dia Participação",
	"Observações",
	"Data Envio",
}

// ExportCSV serializes the full record set: one header line, one line per
// record, text fields double-quote-wrapped, accessibility as Sim/Não.
// Embedded quotes and commas inside quoted fields are left unescaped; the
// legacy export wrote them that way and downstream HR tooling parses that
// exact shape.
func ExportCSV(recs []models.Registration) string {
	lines := make([]string, 0, len(recs)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, r := range recs {
		yesNo := "Não"
		if r.NeedsAccessibility {
			yesNo = "Sim"
		}
		fields := []string{
			quote(r.FullName),
			quote(r.CorporateEmail),
			quote(r.Department),
			quote(r.AutomationLevel),
			yesNo,
			quote(deref(r.AccessibilityDescription)),
			quote(r.AttendanceDay),
			quote(deref(r.Notes)),
			r.SubmittedAt.Format(ExportDateLayout),
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	return `"` + s + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
