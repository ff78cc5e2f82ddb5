package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment statuses. A loan's schedule, when present, is authoritative for
// due-date resolution and schedule-based DPD.
const (
	InstallmentPending = "pending"
	InstallmentPartial = "partial"
	InstallmentPaid    = "paid"
	InstallmentWaived  = "waived"
)

// ScheduleEntry is one per-installment row of a loan's repayment schedule.
type ScheduleEntry struct {
	LoanID            string          `json:"loan_id"`
	InstallmentNumber int             `json:"installment_number"`
	DueDate           time.Time       `json:"due_date"`
	AmountDue         decimal.Decimal `json:"amount_due"`
	PrincipalDue      decimal.Decimal `json:"principal_due"`
	InterestDue       decimal.Decimal `json:"interest_due"`
	FeesDue           decimal.Decimal `json:"fees_due"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Unsettled reports whether the installment still has an amount owing.
func (s *ScheduleEntry) Unsettled() bool {
	return s.Status == InstallmentPending || s.Status == InstallmentPartial
}

// ScheduleEntryInput is the ETL upsert payload for a schedule installment.
type ScheduleEntryInput struct {
	LoanID            string          `json:"loan_id"`
	InstallmentNumber int             `json:"installment_number"`
	DueDate           string          `json:"due_date"` // YYYY-MM-DD
	AmountDue         decimal.Decimal `json:"amount_due"`
	PrincipalDue      decimal.Decimal `json:"principal_due"`
	InterestDue       decimal.Decimal `json:"interest_due"`
	FeesDue           decimal.Decimal `json:"fees_due"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	Status            string          `json:"status"`
}
