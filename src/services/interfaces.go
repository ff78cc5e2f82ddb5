// src/services/interfaces.go
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

// Define common service errors
var (
	ErrLoanNotFound            = errors.New("loan not found")
	ErrRecalculationInProgress = errors.New("a full recalculation is already running")
)

// MetricsService is the per-loan recomputation engine. WriteAndRecompute runs
// a ledger write and the loan's recomputation in one transaction so they
// commit together; RunFullRecalculation sweeps every loan and rebuilds the
// dashboard snapshots.
type MetricsService interface {
	RecomputeLoan(ctx context.Context, loanID string) error
	WriteAndRecompute(ctx context.Context, loanID string, write func(tx *sql.Tx) error) error
	RunFullRecalculation(ctx context.Context) (*models.RecalculationResult, error)
}

// SnapshotService owns the per-run officer and portfolio rollups and their
// read-side cache.
type SnapshotService interface {
	RebuildSnapshots(ctx context.Context, runID string) error
	GetOfficerDashboard(ctx context.Context) ([]models.OfficerSnapshot, error)
	GetPortfolioDashboard(ctx context.Context) (*models.PortfolioSnapshot, error)
	InvalidateCache()
}
