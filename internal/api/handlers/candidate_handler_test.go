package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/services"
)

type stubCandidateService struct {
	rows  []models.Candidate
	total int64
	gotQ  services.CandidateListQuery
}

func (s *stubCandidateService) Create(context.Context, string, services.CreateCandidateInput) (*models.Candidate, []string, error) {
	return nil, nil, nil
}

func (s *stubCandidateService) Get(context.Context, string) (*models.Candidate, error) {
	return nil, nil
}

func (s *stubCandidateService) List(_ context.Context, q services.CandidateListQuery) ([]models.Candidate, int64, error) {
	s.gotQ = q
	return s.rows, s.total, nil
}

func (s *stubCandidateService) Stats(context.Context) (*models.CandidateStats, error) {
	return &models.CandidateStats{TotalCandidates: 3, CompletedCandidates: 1, NotStartedCandidates: 2, AverageScore: 80}, nil
}

func newCandidateRouter(svc services.CandidateService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
	})
	h := NewCandidateHandler(svc)
	r.GET("/candidates", h.List)
	r.GET("/stats/candidates", h.Stats)
	return r
}

type listResponse struct {
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int64 `json:"pages"`
	} `json:"pagination"`
}

func TestListHandlerNormalizesBadLimit(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"zero limit", "limit=0"},
		{"negative limit", "limit=-5"},
		{"non-numeric limit", "limit=abc"},
		{"oversized limit", "limit=1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubCandidateService{total: 12}
			r := newCandidateRouter(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/candidates?"+tt.query, nil)
			assert.NotPanics(t, func() { r.ServeHTTP(w, req) })
			require.Equal(t, http.StatusOK, w.Code)

			var resp listResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 10, resp.Pagination.Limit)
			assert.Equal(t, int64(2), resp.Pagination.Pages)
			assert.Equal(t, 10, svc.gotQ.Limit, "service sees the same limit the response reports")
		})
	}
}

func TestListHandlerPagination(t *testing.T) {
	svc := &stubCandidateService{total: 11}
	r := newCandidateRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/candidates?page=2&limit=5", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 5, resp.Pagination.Limit)
	assert.Equal(t, int64(3), resp.Pagination.Pages)
	assert.Equal(t, 2, svc.gotQ.Page)
}

func TestStatsHandler(t *testing.T) {
	r := newCandidateRouter(&stubCandidateService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats/candidates", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.CandidateStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.TotalCandidates)
	assert.Equal(t, 80, stats.AverageScore)
}
