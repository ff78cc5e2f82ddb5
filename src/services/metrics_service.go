// src/services/metrics_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/LibertytechX/seeds-metrics-sub003/src/config"
	"github.com/LibertytechX/seeds-metrics-sub003/src/logger"
	"github.com/LibertytechX/seeds-metrics-sub003/src/model"
	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
	"github.com/LibertytechX/seeds-metrics-sub003/src/processors"
)

type metricsService struct {
	db        *sql.DB
	snapshots SnapshotService

	ledger     *processors.LedgerProcessor
	dueDates   *processors.DueDateProcessor
	balances   *processors.BalanceProcessor
	dpd        *processors.DPDProcessor
	indicators *processors.IndicatorProcessor
	behavior   *processors.BehaviorProcessor

	// One mutex per loan id. Guarantees that two triggers for the same loan
	// recompute serially even though the processors themselves are pure.
	loanLocks sync.Map
	fullRun   atomic.Bool

	now func() time.Time
}

func NewMetricsService(db *sql.DB, snapshots SnapshotService) MetricsService {
	return &metricsService{
		db:         db,
		snapshots:  snapshots,
		ledger:     processors.NewLedgerProcessor(),
		dueDates:   processors.NewDueDateProcessor(config.Cfg.FallbackFirstDueOffsetDays),
		balances:   processors.NewBalanceProcessor(),
		dpd:        processors.NewDPDProcessor(),
		indicators: processors.NewIndicatorProcessor(),
		behavior:   processors.NewBehaviorProcessor(),
		now:        time.Now,
	}
}

// lockLoan serializes recomputation per loan. Lock order invariant: the loan
// mutex is always taken before the database connection is drawn. With
// MaxOpenConns(1), a goroutine that held the connection while waiting on a
// loan mutex would stand off against one holding the mutex while waiting on
// the connection.
func (s *metricsService) lockLoan(loanID string) func() {
	v, _ := s.loanLocks.LoadOrStore(loanID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// RecomputeLoan recomputes a single loan in its own transaction.
func (s *metricsService) RecomputeLoan(ctx context.Context, loanID string) error {
	unlock := s.lockLoan(loanID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recompute tx for loan %s: %w", loanID, err)
	}
	defer tx.Rollback()

	if err := s.recompute(ctx, tx, loanID); err != nil {
		return err
	}
	return tx.Commit()
}

// WriteAndRecompute runs a ledger write and the loan's recomputation in one
// transaction, so the triggering write and the derived update are one commit.
// Takes the loan mutex before beginning the transaction, the same order
// RecomputeLoan uses.
func (s *metricsService) WriteAndRecompute(ctx context.Context, loanID string, write func(tx *sql.Tx) error) error {
	unlock := s.lockLoan(loanID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write tx for loan %s: %w", loanID, err)
	}
	defer tx.Rollback()

	if err := write(tx); err != nil {
		return err
	}
	if err := s.recompute(ctx, tx, loanID); err != nil {
		return err
	}
	return tx.Commit()
}

// recompute runs the full chain: ledger aggregation, due-date resolution,
// balances, DPD, indicator tags and behaviour scores, then persists the
// derived block in one update.
func (s *metricsService) recompute(ctx context.Context, q model.DBTX, loanID string) error {
	loan, err := model.GetLoanByID(ctx, q, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrLoanNotFound, loanID)
	}
	if err != nil {
		return fmt.Errorf("load loan %s: %w", loanID, err)
	}

	repayments, err := model.GetRepaymentsForLoan(ctx, q, loanID)
	if err != nil {
		return fmt.Errorf("load repayments for loan %s: %w", loanID, err)
	}
	schedule, err := model.GetScheduleForLoan(ctx, q, loanID)
	if err != nil {
		return fmt.Errorf("load schedule for loan %s: %w", loanID, err)
	}

	today := dateOnly(s.now())

	summary := s.ledger.Process(repayments)
	firstDue := s.dueDates.Resolve(loan, schedule)
	balance := s.balances.Process(loan, summary, firstDue, today)
	dpdResult := s.dpd.Process(loan, balance, summary, schedule, today)
	indicators := s.indicators.Process(firstDue, summary, dpdResult.CurrentDPD, today)
	behavior := s.behavior.Process(loan, summary, balance, dpdResult.CurrentDPD, today)

	loan.TotalPrincipalPaid = summary.TotalPrincipalPaid
	loan.TotalInterestPaid = summary.TotalInterestPaid
	loan.TotalFeesPaid = summary.TotalFeesPaid
	loan.TotalRepayments = summary.TotalRepayments
	loan.RepaymentCount = summary.RepaymentCount

	loan.PrincipalOutstanding = balance.PrincipalOutstanding
	loan.InterestOutstanding = balance.InterestOutstanding
	loan.FeesOutstanding = balance.FeesOutstanding
	loan.TotalOutstanding = balance.TotalOutstanding
	loan.ActualOutstanding = balance.ActualOutstanding
	loan.DailyRepaymentAmount = balance.DailyRepaymentAmount
	loan.RealLoanTenureDays = balance.RealLoanTenureDays
	loan.RepaymentDaysDueToday = balance.RepaymentDaysDueToday
	loan.BusinessDaysSinceDisbursement = balance.BusinessDaysSinceDisbursement

	loan.CurrentDPD = dpdResult.CurrentDPD
	loan.PreviousDPD = dpdResult.PreviousDPD
	loan.MaxDPDEver = dpdResult.MaxDPDEver
	loan.RepaymentDaysPaid = dpdResult.RepaymentDaysPaid

	loan.FIMRTagged = &indicators.FIMRTagged
	loan.EarlyIndicatorTagged = &indicators.EarlyIndicatorTagged
	loan.FirstPaymentMissed = &indicators.FirstPaymentMissed
	loan.FirstPaymentDueDate = firstDue
	loan.FirstPaymentReceivedDate = indicators.FirstPaymentReceivedDate
	loan.DaysSinceDue = indicators.DaysSinceDue

	loan.DaysSinceLastRepayment = behavior.DaysSinceLastRepayment
	loan.LoanAge = behavior.LoanAge
	loan.RepaymentDelayRate = behavior.RepaymentDelayRate
	loan.TimelinessScore = behavior.TimelinessScore
	loan.RepaymentHealth = behavior.RepaymentHealth

	loan.DerivedUpdatedAt = &today

	if err := model.UpdateLoanDerived(ctx, q, loan); err != nil {
		return fmt.Errorf("persist derived fields for loan %s: %w", loanID, err)
	}
	return nil
}

// RunFullRecalculation sweeps every loan in its own transaction, collecting
// per-loan failures instead of aborting, then rebuilds the dashboard
// snapshots from the fresh derived fields.
func (s *metricsService) RunFullRecalculation(ctx context.Context) (*models.RecalculationResult, error) {
	if !s.fullRun.CompareAndSwap(false, true) {
		return nil, ErrRecalculationInProgress
	}
	defer s.fullRun.Store(false)

	runID := uuid.New().String()
	start := s.now()

	loanIDs, err := model.ListLoanIDs(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list loans for run %s: %w", runID, err)
	}

	result := &models.RecalculationResult{RunID: runID}
	for _, loanID := range loanIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.LoansProcessed++
		if err := s.RecomputeLoan(ctx, loanID); err != nil {
			logger.ErrorFromContext(ctx, "loan recomputation failed", "runID", runID, "loanID", loanID, "error", err)
			result.Failures = append(result.Failures, models.LoanFailure{LoanID: loanID, Reason: err.Error()})
			continue
		}
		result.LoansUpdated++
	}

	if err := s.snapshots.RebuildSnapshots(ctx, runID); err != nil {
		return nil, fmt.Errorf("rebuild snapshots for run %s: %w", runID, err)
	}

	result.DurationMs = time.Since(start).Milliseconds()
	logger.InfoFromContext(ctx, "full recalculation finished",
		"runID", runID,
		"loansProcessed", result.LoansProcessed,
		"loansUpdated", result.LoansUpdated,
		"failures", len(result.Failures),
		"durationMs", result.DurationMs,
	)
	return result, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
