package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
)

type fakeStore struct {
	recs []models.Registration
	err  error
}

func (f *fakeStore) ListAll(ctx context.Context) ([]models.Registration, error) {
	return f.recs, f.err
}

func newRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, nil)
	r := gin.New()
	r.GET("/admin/inscricoes", h.List)
	r.GET("/admin/resumo", h.Summary)
	r.GET("/admin/export", h.Export)
	return r
}

func testRecords() []models.Registration {
	at := time.Date(2025, 12, 10, 10, 0, 0, 0, time.UTC)
	return []models.Registration{
		reg("Ana Silva", "ana@empresa.com", "TI", "11/12", false),
		reg("João Souza", "joao.ana@x.com", "RH", "12/12", true),
		reg("Carlos Lima", "carlos@empresa.com", "TI", "11/12", false),
		{FullName: "Paula Dias", CorporateEmail: "paula@empresa.com", Department: "Outro",
			AutomationLevel: "Baixo", AttendanceDay: "13/12", SubmittedAt: at},
	}
}

func TestListFiltersButKeepsTotal(t *testing.T) {
	r := newRouter(&fakeStore{recs: testRecords()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/inscricoes?q=ana", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Total         int              `json:"total"`
			Count         int              `json:"count"`
			Registrations []map[string]any `json:"registrations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 4, body.Data.Total)
	assert.Equal(t, 2, body.Data.Count)
	require.Len(t, body.Data.Registrations, 2)

	// Table rows never expose the internal id or the accessibility description.
	for _, row := range body.Data.Registrations {
		assert.NotContains(t, row, "id")
		assert.NotContains(t, row, "accessibility_description")
		assert.Contains(t, row, "full_name")
	}
}

func TestListStoreError(t *testing.T) {
	r := newRouter(&fakeStore{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/inscricoes", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestSummaryEndpoint(t *testing.T) {
	r := newRouter(&fakeStore{recs: testRecords()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/resumo", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Data.Total)
	assert.Equal(t, "11/12", body.Data.MostPopularDay)
	assert.Equal(t, 1, body.Data.Accessibility)
	assert.Equal(t, 3, body.Data.DistinctDepartments)
}

func TestExportEndpoint(t *testing.T) {
	r := newRouter(&fakeStore{recs: testRecords()[:2]})

	w := httptest.NewRecorder()
	// The filter never applies to exports; q is ignored.
	req := httptest.NewRequest(http.MethodGet, "/admin/export?q=ana", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=inscricoes_treinamento.csv`, w.Header().Get("Content-Disposition"))
	assert.Len(t, strings.Split(w.Body.String(), "\n"), 3)
}
