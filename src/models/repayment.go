package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Repayment is one row of a loan's append-mostly ledger. A reversal sets
// IsReversed rather than deleting the row; reversed rows contribute zero to
// every aggregate.
type Repayment struct {
	RepaymentID    string          `json:"repayment_id"`
	LoanID         string          `json:"loan_id"`
	PaymentDate    time.Time       `json:"payment_date"`
	PaymentAmount  decimal.Decimal `json:"payment_amount"`
	PrincipalPaid  decimal.Decimal `json:"principal_paid"`
	InterestPaid   decimal.Decimal `json:"interest_paid"`
	FeesPaid       decimal.Decimal `json:"fees_paid"`
	PenaltyPaid    decimal.Decimal `json:"penalty_paid"`
	IsReversed     bool            `json:"is_reversed"`
	ReversalDate   *time.Time      `json:"reversal_date,omitempty"`
	ReversalReason *string         `json:"reversal_reason,omitempty"`
	WaiverAmount   decimal.Decimal `json:"waiver_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RepaymentInput is the write-path payload for creating or updating a repayment.
type RepaymentInput struct {
	RepaymentID    string          `json:"repayment_id"`
	LoanID         string          `json:"loan_id"`
	PaymentDate    string          `json:"payment_date"` // YYYY-MM-DD
	PaymentAmount  decimal.Decimal `json:"payment_amount"`
	PrincipalPaid  decimal.Decimal `json:"principal_paid"`
	InterestPaid   decimal.Decimal `json:"interest_paid"`
	FeesPaid       decimal.Decimal `json:"fees_paid"`
	PenaltyPaid    decimal.Decimal `json:"penalty_paid"`
	IsReversed     bool            `json:"is_reversed"`
	ReversalDate   *string         `json:"reversal_date"` // YYYY-MM-DD
	ReversalReason *string         `json:"reversal_reason"`
	WaiverAmount   decimal.Decimal `json:"waiver_amount"`
}

// LedgerSummary aggregates a loan's non-reversed repayments.
type LedgerSummary struct {
	TotalPrincipalPaid decimal.Decimal `json:"total_principal_paid"`
	TotalInterestPaid  decimal.Decimal `json:"total_interest_paid"`
	TotalFeesPaid      decimal.Decimal `json:"total_fees_paid"`
	TotalRepayments    decimal.Decimal `json:"total_repayments"`
	TotalWaived        decimal.Decimal `json:"total_waived"`
	FirstPaymentDate   *time.Time      `json:"first_payment_date,omitempty"`
	LastPaymentDate    *time.Time      `json:"last_payment_date,omitempty"`
	RepaymentCount     int             `json:"repayment_count"`
}
