package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LifecycleStage is the shared new/active/settled classification consumed by
// the behaviour scorers. Grace defaults for brand-new loans live here rather
// than being special-cased inside each formula.
type LifecycleStage string

const (
	StageNew     LifecycleStage = "new"
	StageActive  LifecycleStage = "active"
	StageSettled LifecycleStage = "settled"
)

// NewLoanGraceDays is the age below which a loan is classified StageNew and
// receives neutral-positive score defaults.
const NewLoanGraceDays = 7

// BalanceResult carries the outstanding-balance block computed from a loan's
// terms and its ledger summary.
type BalanceResult struct {
	PrincipalOutstanding decimal.Decimal `json:"principal_outstanding"`
	InterestOutstanding  decimal.Decimal `json:"interest_outstanding"`
	FeesOutstanding      decimal.Decimal `json:"fees_outstanding"`
	TotalOutstanding     decimal.Decimal `json:"total_outstanding"`
	ActualOutstanding    decimal.Decimal `json:"actual_outstanding"`

	// RepaymentAmount is the total expected repayment:
	// loanAmount×(1+interestRate) + feeAmount.
	RepaymentAmount      decimal.Decimal `json:"repayment_amount"`
	DailyRepaymentAmount decimal.Decimal `json:"daily_repayment_amount"`

	RepaymentDaysDueToday         int `json:"repayment_days_due_today"`
	RealLoanTenureDays            int `json:"real_loan_tenure_days"`
	BusinessDaysSinceDisbursement int `json:"business_days_since_disbursement"`
}

// DPDResult carries the days-past-due block.
type DPDResult struct {
	CurrentDPD        int     `json:"current_dpd"`
	PreviousDPD       int     `json:"previous_dpd"`
	MaxDPDEver        int     `json:"max_dpd_ever"`
	RepaymentDaysPaid float64 `json:"repayment_days_paid"`
}

// IndicatorResult carries the first-installment compliance block.
type IndicatorResult struct {
	FIMRTagged               bool       `json:"fimr_tagged"`
	EarlyIndicatorTagged     bool       `json:"early_indicator_tagged"`
	FirstPaymentMissed       bool       `json:"first_payment_missed"`
	FirstPaymentReceivedDate *time.Time `json:"first_payment_received_date,omitempty"`
	DaysSinceDue             *int       `json:"days_since_due,omitempty"`
}

// BehaviorResult carries the delay-rate and score block.
type BehaviorResult struct {
	Stage                  LifecycleStage `json:"stage"`
	DaysSinceLastRepayment *int           `json:"days_since_last_repayment,omitempty"`
	LoanAge                int            `json:"loan_age"`
	RepaymentDelayRate     *float64       `json:"repayment_delay_rate,omitempty"`
	TimelinessScore        float64        `json:"timeliness_score"`
	RepaymentHealth        float64        `json:"repayment_health"`
}

// LoanFailure records a single loan whose recomputation failed during a batch
// pass. The batch itself continues.
type LoanFailure struct {
	LoanID string `json:"loan_id"`
	Reason string `json:"reason"`
}

// RecalculationResult is the outcome of one full-portfolio batch pass.
type RecalculationResult struct {
	RunID          string        `json:"run_id"`
	LoansProcessed int           `json:"loansProcessed"`
	LoansUpdated   int           `json:"loansUpdated"`
	DurationMs     int64         `json:"durationMs"`
	Failures       []LoanFailure `json:"failures,omitempty"`
}
