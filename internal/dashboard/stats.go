package dashboard

import (
	"strings"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
)

// DepartmentCount is one department bucket, in first-occurrence order.
type DepartmentCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DayCount is one attendance-day bucket. Every fixed day appears, zero or not.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Summary holds the aggregates derived from the full record set.
type Summary struct {
	Total               int               `json:"total"`
	Departments         []DepartmentCount `json:"departments"`
	DistinctDepartments int               `json:"distinct_departments"`
	Days                []DayCount        `json:"days"`
	MostPopularDay      string            `json:"most_popular_day"`
	Accessibility       int               `json:"accessibility"`
}

// Filter returns the records whose full name or corporate email contains
// term, case-insensitively. The input slice is never modified.
func Filter(recs []models.Registration, term string) []models.Registration {
	if term == "" {
		return recs
	}
	t := strings.ToLower(term)
	out := make([]models.Registration, 0, len(recs))
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.FullName), t) ||
			strings.Contains(strings.ToLower(r.CorporateEmail), t) {
			out = append(out, r)
		}
	}
	return out
}

// CountByDepartment groups records by department, one bucket per distinct
// value in order of first occurrence.
func CountByDepartment(recs []models.Registration) []DepartmentCount {
	index := make(map[string]int)
	var out []DepartmentCount
	for _, r := range recs {
		if i, ok := index[r.Department]; ok {
			out[i].Count++
			continue
		}
		index[r.Department] = len(out)
		out = append(out, DepartmentCount{Name: r.Department, Count: 1})
	}
	return out
}

// CountByDay buckets records over the fixed day list, zero when none.
func CountByDay(recs []models.Registration) []DayCount {
	out := make([]DayCount, len(models.AttendanceDays))
	for i, day := range models.AttendanceDays {
		out[i].Day = day
	}
	for _, r := range recs {
		for i := range out {
			if out[i].Day == r.AttendanceDay {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// MostPopularDay returns the day with the highest count. Ties resolve to the
// earliest entry in the fixed day list (strict greater-than comparison).
func MostPopularDay(days []DayCount) string {
	if len(days) == 0 {
		return "-"
	}
	best := days[0]
	for _, d := range days[1:] {
		if d.Count > best.Count {
			best = d
		}
	}
	return best.Day
}

// CountAccessibility returns how many records flagged accessibility needs.
func CountAccessibility(recs []models.Registration) int {
	n := 0
	for _, r := range recs {
		if r.NeedsAccessibility {
			n++
		}
	}
	return n
}

// BuildSummary derives all dashboard aggregates from the full record set.
func BuildSummary(recs []models.Registration) Summary {
	departments := CountByDepartment(recs)
	days := CountByDay(recs)
	return Summary{
		Total:               len(recs),
		Departments:         departments,
		DistinctDepartments: len(departments),
		Days:                days,
		MostPopularDay:      MostPopularDay(days),
		Accessibility:       CountAccessibility(recs),
	}
}
