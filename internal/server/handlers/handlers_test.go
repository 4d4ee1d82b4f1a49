package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/weaver/internal/domain/models"
	"github.com/mamadbah2/weaver/internal/server/middleware"
	"github.com/mamadbah2/weaver/internal/service/mill"
	"github.com/mamadbah2/weaver/internal/service/salary"
	"github.com/mamadbah2/weaver/pkg/clients/identity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMill struct {
	MillService
	err error
}

func (s stubMill) ListWorkers(context.Context) ([]models.Worker, error) { return nil, s.err }

func (s stubMill) GetProductionRecord(context.Context, string) (models.ProductionRecord, error) {
	return models.ProductionRecord{}, s.err
}

func (s stubMill) CreateShed(_ context.Context, req models.ShedCreateRequest) (models.Shed, error) {
	return models.Shed{ID: "s1", Name: strings.ToUpper(req.Name)}, s.err
}

type stubSalary struct {
	err error
}

func (s stubSalary) Calculate(context.Context, string, string, string) (models.SalaryReport, error) {
	return models.SalaryReport{}, s.err
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("%w: bad", mill.ErrInvalidInput), want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: l9", mill.ErrUnknownLoom), want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: reversed", salary.ErrInvalidRange), want: http.StatusBadRequest},
		{err: fmt.Errorf("record x: %w", models.ErrNotFound), want: http.StatusNotFound},
		{err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		r := gin.New()
		h := NewMillHandler(stubMill{err: tc.err}, nil)
		r.GET("/production/:id", h.GetProduction)

		rec := serve(r, http.MethodGet, "/production/x", "")
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	r := gin.New()
	h := NewMillHandler(stubMill{err: errors.New("dial tcp 10.0.0.5:27017: refused")}, nil)
	r.GET("/workers", h.ListWorkers)

	rec := serve(r, http.MethodGet, "/workers", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestListWorkersNeverReturnsNull(t *testing.T) {
	r := gin.New()
	r.GET("/workers", NewMillHandler(stubMill{}, nil).ListWorkers)

	rec := serve(r, http.MethodGet, "/workers", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateShedAcceptsBodyOrQuery(t *testing.T) {
	r := gin.New()
	r.POST("/sheds", NewMillHandler(stubMill{}, nil).CreateShed)

	rec := serve(r, http.MethodPost, "/sheds", `{"name":"b"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"B"`)

	rec = serve(r, http.MethodPost, "/sheds?name=c", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"C"`)

	rec = serve(r, http.MethodPost, "/sheds", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSalaryRequiresAllParameters(t *testing.T) {
	r := gin.New()
	r.GET("/salary/calculate", NewSalaryHandler(stubSalary{}, nil).Calculate)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/salary/calculate?worker_id=w1&start_date=2024-01-01", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/salary/calculate?worker_id=w1&start_date=2024-01-01&end_date=2024-01-02", "").Code)
}

func TestMe(t *testing.T) {
	const secret = "me-secret"
	r := gin.New()
	r.GET("/me", middleware.Authenticate(identity.NewHMACVerifier(secret), nil), Me("boss@mill.test"))
	r.GET("/anonymous", Me("boss@mill.test"))

	raw, err := identity.SignHMAC(secret, models.Identity{UID: "u1", Email: "boss@mill.test"}, time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"uid":"u1","email":"boss@mill.test","role":"Admin"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/anonymous", "").Code)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health("postgres"))

	rec := serve(r, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok","database":"postgres"}`, rec.Body.String())
}
