package model

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

const loanColumns = `
	loan_id, customer_id, customer_name, officer_id, officer_name, region, branch,
	loan_amount, interest_rate, fee_amount, disbursement_date, maturity_date, loan_term_days,
	status, closed_date, verification_status, synced_first_due_date,
	total_principal_paid, total_interest_paid, total_fees_paid, total_repayments, repayment_count,
	principal_outstanding, interest_outstanding, fees_outstanding, total_outstanding, actual_outstanding,
	current_dpd, previous_dpd, max_dpd_ever,
	fimr_tagged, early_indicator_tagged, first_payment_missed, first_payment_due_date, first_payment_received_date,
	days_since_last_repayment, days_since_due, loan_age, repayment_delay_rate, timeliness_score, repayment_health,
	daily_repayment_amount, real_loan_tenure_days, repayment_days_paid, repayment_days_due_today, business_days_since_disbursement,
	derived_updated_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	var l models.Loan
	var interestRate, feeAmount decimal.NullDecimal
	var closedDate, syncedFirstDue, firstDueDate, firstReceivedDate, derivedUpdatedAt sql.NullTime
	var fimr, early, firstMissed sql.NullBool
	var daysSinceLast, daysSinceDue sql.NullInt64
	var delayRate sql.NullFloat64

	err := row.Scan(
		&l.LoanID, &l.CustomerID, &l.CustomerName, &l.OfficerID, &l.OfficerName, &l.Region, &l.Branch,
		&l.LoanAmount, &interestRate, &feeAmount, &l.DisbursementDate, &l.MaturityDate, &l.LoanTermDays,
		&l.Status, &closedDate, &l.VerificationStatus, &syncedFirstDue,
		&l.TotalPrincipalPaid, &l.TotalInterestPaid, &l.TotalFeesPaid, &l.TotalRepayments, &l.RepaymentCount,
		&l.PrincipalOutstanding, &l.InterestOutstanding, &l.FeesOutstanding, &l.TotalOutstanding, &l.ActualOutstanding,
		&l.CurrentDPD, &l.PreviousDPD, &l.MaxDPDEver,
		&fimr, &early, &firstMissed, &firstDueDate, &firstReceivedDate,
		&daysSinceLast, &daysSinceDue, &l.LoanAge, &delayRate, &l.TimelinessScore, &l.RepaymentHealth,
		&l.DailyRepaymentAmount, &l.RealLoanTenureDays, &l.RepaymentDaysPaid, &l.RepaymentDaysDueToday, &l.BusinessDaysSinceDisbursement,
		&derivedUpdatedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if interestRate.Valid {
		l.InterestRate = &interestRate.Decimal
	}
	if feeAmount.Valid {
		l.FeeAmount = &feeAmount.Decimal
	}
	l.ClosedDate = timeOrNil(closedDate)
	l.SyncedFirstDueDate = timeOrNil(syncedFirstDue)
	l.FIMRTagged = boolOrNil(fimr)
	l.EarlyIndicatorTagged = boolOrNil(early)
	l.FirstPaymentMissed = boolOrNil(firstMissed)
	l.FirstPaymentDueDate = timeOrNil(firstDueDate)
	l.FirstPaymentReceivedDate = timeOrNil(firstReceivedDate)
	l.DaysSinceLastRepayment = intOrNil(daysSinceLast)
	l.DaysSinceDue = intOrNil(daysSinceDue)
	if delayRate.Valid {
		l.RepaymentDelayRate = &delayRate.Float64
	}
	l.DerivedUpdatedAt = timeOrNil(derivedUpdatedAt)

	return &l, nil
}

// GetLoanByID returns sql.ErrNoRows when the loan does not exist.
func GetLoanByID(ctx context.Context, q DBTX, loanID string) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = ?`
	return scanLoan(q.QueryRowContext(ctx, query, loanID))
}

// ListLoanIDs returns every loan id, ordered for deterministic batch passes.
func ListLoanIDs(ctx context.Context, q DBTX) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT loan_id FROM loans ORDER BY loan_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertLoan writes the externally-owned term and status columns. The derived
// block is intentionally untouched; only the recomputation engine writes it.
func UpsertLoan(ctx context.Context, q DBTX, l *models.Loan) error {
	query := `
	INSERT INTO loans (
		loan_id, customer_id, customer_name, officer_id, officer_name, region, branch,
		loan_amount, interest_rate, fee_amount, disbursement_date, maturity_date, loan_term_days,
		status, closed_date, verification_status, synced_first_due_date, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(loan_id) DO UPDATE SET
		customer_id = excluded.customer_id,
		customer_name = excluded.customer_name,
		officer_id = excluded.officer_id,
		officer_name = excluded.officer_name,
		region = excluded.region,
		branch = excluded.branch,
		loan_amount = excluded.loan_amount,
		interest_rate = excluded.interest_rate,
		fee_amount = excluded.fee_amount,
		disbursement_date = excluded.disbursement_date,
		maturity_date = excluded.maturity_date,
		loan_term_days = excluded.loan_term_days,
		status = excluded.status,
		closed_date = excluded.closed_date,
		verification_status = excluded.verification_status,
		synced_first_due_date = excluded.synced_first_due_date,
		updated_at = excluded.updated_at`

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, query,
		l.LoanID, l.CustomerID, l.CustomerName, l.OfficerID, l.OfficerName, l.Region, l.Branch,
		l.LoanAmount.String(), decimalOrNil(l.InterestRate), decimalOrNil(l.FeeAmount),
		l.DisbursementDate, l.MaturityDate, l.LoanTermDays,
		l.Status, nilTime(l.ClosedDate), l.VerificationStatus, nilTime(l.SyncedFirstDueDate),
		now, now,
	)
	return err
}

// UpdateLoanDerived overwrites the full derived block from a completed
// recomputation. Runs on the caller's transaction so the triggering write and
// the derived update commit together.
func UpdateLoanDerived(ctx context.Context, q DBTX, l *models.Loan) error {
	query := `
	UPDATE loans SET
		total_principal_paid = ?, total_interest_paid = ?, total_fees_paid = ?,
		total_repayments = ?, repayment_count = ?,
		principal_outstanding = ?, interest_outstanding = ?, fees_outstanding = ?,
		total_outstanding = ?, actual_outstanding = ?,
		current_dpd = ?, previous_dpd = ?, max_dpd_ever = ?,
		fimr_tagged = ?, early_indicator_tagged = ?, first_payment_missed = ?,
		first_payment_due_date = ?, first_payment_received_date = ?,
		days_since_last_repayment = ?, days_since_due = ?, loan_age = ?,
		repayment_delay_rate = ?, timeliness_score = ?, repayment_health = ?,
		daily_repayment_amount = ?, real_loan_tenure_days = ?, repayment_days_paid = ?,
		repayment_days_due_today = ?, business_days_since_disbursement = ?,
		derived_updated_at = ?, updated_at = ?
	WHERE loan_id = ?`

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, query,
		l.TotalPrincipalPaid.String(), l.TotalInterestPaid.String(), l.TotalFeesPaid.String(),
		l.TotalRepayments.String(), l.RepaymentCount,
		l.PrincipalOutstanding.String(), l.InterestOutstanding.String(), l.FeesOutstanding.String(),
		l.TotalOutstanding.String(), l.ActualOutstanding.String(),
		l.CurrentDPD, l.PreviousDPD, l.MaxDPDEver,
		nilBool(l.FIMRTagged), nilBool(l.EarlyIndicatorTagged), nilBool(l.FirstPaymentMissed),
		nilTime(l.FirstPaymentDueDate), nilTime(l.FirstPaymentReceivedDate),
		nilInt(l.DaysSinceLastRepayment), nilInt(l.DaysSinceDue), l.LoanAge,
		nilFloat(l.RepaymentDelayRate), l.TimelinessScore, l.RepaymentHealth,
		l.DailyRepaymentAmount.String(), l.RealLoanTenureDays, l.RepaymentDaysPaid,
		l.RepaymentDaysDueToday, l.BusinessDaysSinceDisbursement,
		nilTime(l.DerivedUpdatedAt), now,
		l.LoanID,
	)
	return err
}

func decimalOrNil(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nilTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nilBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nilInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nilFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func timeOrNil(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func boolOrNil(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func intOrNil(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}
