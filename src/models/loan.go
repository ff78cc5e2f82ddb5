package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents a loan row. The terms and status fields are owned by the
// upstream origination system; the derived block is owned and overwritten by
// the recomputation engine and must never be written by the ETL path.
type Loan struct {
	LoanID       string `json:"loan_id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	OfficerID    string `json:"officer_id"`
	OfficerName  string `json:"officer_name"`
	Region       string `json:"region"`
	Branch       string `json:"branch"`

	// Immutable terms
	LoanAmount       decimal.Decimal  `json:"loan_amount"`
	InterestRate     *decimal.Decimal `json:"interest_rate,omitempty"`
	FeeAmount        *decimal.Decimal `json:"fee_amount,omitempty"`
	DisbursementDate time.Time        `json:"disbursement_date"`
	MaturityDate     time.Time        `json:"maturity_date"`
	// LoanTermDays is a business-day count (see DESIGN.md).
	LoanTermDays int `json:"loan_term_days"`

	// Externally-owned status fields
	Status             string     `json:"status"`
	ClosedDate         *time.Time `json:"closed_date,omitempty"`
	VerificationStatus string     `json:"verification_status"`
	SyncedFirstDueDate *time.Time `json:"synced_first_due_date,omitempty"`

	// Derived: ledger totals
	TotalPrincipalPaid decimal.Decimal `json:"total_principal_paid"`
	TotalInterestPaid  decimal.Decimal `json:"total_interest_paid"`
	TotalFeesPaid      decimal.Decimal `json:"total_fees_paid"`
	TotalRepayments    decimal.Decimal `json:"total_repayments"`
	RepaymentCount     int             `json:"repayment_count"`

	// Derived: outstanding balances
	PrincipalOutstanding decimal.Decimal `json:"principal_outstanding"`
	InterestOutstanding  decimal.Decimal `json:"interest_outstanding"`
	FeesOutstanding      decimal.Decimal `json:"fees_outstanding"`
	TotalOutstanding     decimal.Decimal `json:"total_outstanding"`
	ActualOutstanding    decimal.Decimal `json:"actual_outstanding"`

	// Derived: delinquency
	CurrentDPD  int `json:"current_dpd"`
	PreviousDPD int `json:"previous_dpd"`
	MaxDPDEver  int `json:"max_dpd_ever"`

	// Derived: first-installment compliance
	FIMRTagged               *bool      `json:"fimr_tagged,omitempty"`
	EarlyIndicatorTagged     *bool      `json:"early_indicator_tagged,omitempty"`
	FirstPaymentMissed       *bool      `json:"first_payment_missed,omitempty"`
	FirstPaymentDueDate      *time.Time `json:"first_payment_due_date,omitempty"`
	FirstPaymentReceivedDate *time.Time `json:"first_payment_received_date,omitempty"`

	// Derived: behaviour
	DaysSinceLastRepayment *int     `json:"days_since_last_repayment,omitempty"`
	DaysSinceDue           *int     `json:"days_since_due,omitempty"`
	LoanAge                int      `json:"loan_age"`
	RepaymentDelayRate     *float64 `json:"repayment_delay_rate,omitempty"`
	TimelinessScore        float64  `json:"timeliness_score"`
	RepaymentHealth        float64  `json:"repayment_health"`

	// Derived: calendar helpers
	DailyRepaymentAmount          decimal.Decimal `json:"daily_repayment_amount"`
	RealLoanTenureDays            int             `json:"real_loan_tenure_days"`
	RepaymentDaysPaid             float64         `json:"repayment_days_paid"`
	RepaymentDaysDueToday         int             `json:"repayment_days_due_today"`
	BusinessDaysSinceDisbursement int             `json:"business_days_since_disbursement"`

	// Date of the last derived-field write; drives the previous_dpd
	// once-per-day snapshot rule.
	DerivedUpdatedAt *time.Time `json:"derived_updated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InterestRateOrZero returns the loan's interest rate, zero when unset.
func (l *Loan) InterestRateOrZero() decimal.Decimal {
	if l.InterestRate == nil {
		return decimal.Zero
	}
	return *l.InterestRate
}

// FeeAmountOrZero returns the loan's fee amount, zero when unset.
func (l *Loan) FeeAmountOrZero() decimal.Decimal {
	if l.FeeAmount == nil {
		return decimal.Zero
	}
	return *l.FeeAmount
}

// LoanInput is the ETL upsert payload for a loan (terms and status only).
type LoanInput struct {
	LoanID           string           `json:"loan_id"`
	CustomerID       string           `json:"customer_id"`
	CustomerName     string           `json:"customer_name"`
	OfficerID        string           `json:"officer_id"`
	OfficerName      string           `json:"officer_name"`
	Region           string           `json:"region"`
	Branch           string           `json:"branch"`
	LoanAmount       decimal.Decimal  `json:"loan_amount"`
	InterestRate     *decimal.Decimal `json:"interest_rate"`
	FeeAmount        *decimal.Decimal `json:"fee_amount"`
	DisbursementDate string           `json:"disbursement_date"` // YYYY-MM-DD
	MaturityDate     string           `json:"maturity_date"`     // YYYY-MM-DD
	LoanTermDays     int              `json:"loan_term_days"`
	Status           string           `json:"status"`
	ClosedDate       *string          `json:"closed_date"` // YYYY-MM-DD
	FirstDueDate     *string          `json:"first_due_date"`
}
