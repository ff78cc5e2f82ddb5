// src/handlers/repayment_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LibertytechX/seeds-metrics-sub003/src/config"
	"github.com/LibertytechX/seeds-metrics-sub003/src/database"
	"github.com/LibertytechX/seeds-metrics-sub003/src/logger"
	"github.com/LibertytechX/seeds-metrics-sub003/src/model"
	"github.com/LibertytechX/seeds-metrics-sub003/src/services"
)

func TestMain(m *testing.M) {
	config.Cfg = &config.AppConfig{
		MaterialOutstandingThreshold: 2000,
		FallbackFirstDueOffsetDays:   30,
		SnapshotCacheTTL:             time.Minute,
	}
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// newTestRouter wires the real services onto an in-memory database and
// installs it as the package-global connection the handlers use.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ddl, err := os.ReadFile(filepath.Join("..", "..", "db", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(ddl))
	require.NoError(t, err)

	database.DB = db

	snapshotService := services.NewSnapshotService(db)
	metricsService := services.NewMetricsService(db, snapshotService)

	loanHandler := NewLoanHandler(metricsService)
	repaymentHandler := NewRepaymentHandler(metricsService)
	dashboardHandler := NewDashboardHandler(snapshotService)

	r := chi.NewRouter()
	r.Use(ContextualLoggerMiddleware)
	r.Post("/api/v1/loans", loanHandler.HandleUpsertLoan)
	r.Post("/api/v1/repayments", repaymentHandler.HandleUpsertRepayment)
	r.Get("/api/v1/loans/{loanID}", loanHandler.HandleGetLoan)
	r.Get("/api/v1/dashboard/portfolio", dashboardHandler.HandleGetPortfolio)
	return r
}

func postJSON(t *testing.T, router chi.Router, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loanPayload() map[string]any {
	return map[string]any{
		"loan_id":           "L-1",
		"customer_id":       "C-1",
		"customer_name":     "Chidi Obi",
		"officer_id":        "O-1",
		"officer_name":      "Amaka",
		"region":            "South-West",
		"branch":            "Ikeja",
		"loan_amount":       "10000",
		"interest_rate":     "0.10",
		"fee_amount":        "500",
		"disbursement_date": "2026-01-05",
		"maturity_date":     "2026-02-04",
		"loan_term_days":    23,
		"status":            "Active",
		"first_due_date":    "2026-01-12",
	}
}

func TestHandleUpsertLoanAndRepayment(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/loans", loanPayload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = postJSON(t, router, "/api/v1/repayments", map[string]any{
		"repayment_id":   "R-1",
		"loan_id":        "L-1",
		"payment_date":   "2026-01-13",
		"payment_amount": "1500",
		"principal_paid": "1300",
		"interest_paid":  "150",
		"fees_paid":      "50",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The repayment write and the derived update committed together.
	loan, err := model.GetLoanByID(context.Background(), database.DB, "L-1")
	require.NoError(t, err)
	assert.Equal(t, "1500", loan.TotalRepayments.String())
	assert.Equal(t, 1, loan.RepaymentCount)
	assert.True(t, loan.CurrentDPD >= 0)
	require.NotNil(t, loan.DerivedUpdatedAt)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/L-1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		LoanID          string          `json:"loan_id"`
		TotalRepayments decimal.Decimal `json:"total_repayments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "L-1", got.LoanID)
	assert.Equal(t, "1500", got.TotalRepayments.String())
}

func TestHandleUpsertRepayment_UnknownLoan(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/repayments", map[string]any{
		"repayment_id":   "R-1",
		"loan_id":        "missing",
		"payment_date":   "2026-01-13",
		"payment_amount": "1500",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpsertRepayment_BadPayload(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/repayments", map[string]any{
		"repayment_id":   "R-1",
		"loan_id":        "L-1",
		"payment_date":   "13/01/2026",
		"payment_amount": "1500",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/api/v1/repayments", map[string]any{
		"loan_id":        "L-1",
		"payment_date":   "2026-01-13",
		"payment_amount": "1500",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpsertLoan_SanitizesText(t *testing.T) {
	router := newTestRouter(t)

	payload := loanPayload()
	payload["customer_name"] = "<script>alert(1)</script>Chidi"
	rec := postJSON(t, router, "/api/v1/loans", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	loan, err := model.GetLoanByID(context.Background(), database.DB, "L-1")
	require.NoError(t, err)
	assert.Equal(t, "Chidi", loan.CustomerName)
}

func TestHandleGetPortfolio_NoRunYet(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/portfolio", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
