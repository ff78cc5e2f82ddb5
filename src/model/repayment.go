package model

import (
	"context"
	"database/sql"
	"time"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

// UpsertRepayment writes a ledger row. Re-posting an existing repayment_id
// replaces the row, which is how reversals arrive.
func UpsertRepayment(ctx context.Context, q DBTX, r *models.Repayment) error {
	query := `
	INSERT INTO repayments (
		repayment_id, loan_id, payment_date, payment_amount,
		principal_paid, interest_paid, fees_paid, penalty_paid,
		is_reversed, reversal_date, reversal_reason, waiver_amount,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(repayment_id) DO UPDATE SET
		loan_id = excluded.loan_id,
		payment_date = excluded.payment_date,
		payment_amount = excluded.payment_amount,
		principal_paid = excluded.principal_paid,
		interest_paid = excluded.interest_paid,
		fees_paid = excluded.fees_paid,
		penalty_paid = excluded.penalty_paid,
		is_reversed = excluded.is_reversed,
		reversal_date = excluded.reversal_date,
		reversal_reason = excluded.reversal_reason,
		waiver_amount = excluded.waiver_amount,
		updated_at = excluded.updated_at`

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, query,
		r.RepaymentID, r.LoanID, r.PaymentDate, r.PaymentAmount.String(),
		r.PrincipalPaid.String(), r.InterestPaid.String(), r.FeesPaid.String(), r.PenaltyPaid.String(),
		r.IsReversed, nilTime(r.ReversalDate), nilString(r.ReversalReason), r.WaiverAmount.String(),
		now, now,
	)
	return err
}

// GetRepaymentsForLoan returns the full ledger, reversed rows included, in
// payment-date order.
func GetRepaymentsForLoan(ctx context.Context, q DBTX, loanID string) ([]models.Repayment, error) {
	query := `
	SELECT repayment_id, loan_id, payment_date, payment_amount,
		principal_paid, interest_paid, fees_paid, penalty_paid,
		is_reversed, reversal_date, reversal_reason, waiver_amount,
		created_at, updated_at
	FROM repayments
	WHERE loan_id = ?
	ORDER BY payment_date, repayment_id`

	rows, err := q.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repayments []models.Repayment
	for rows.Next() {
		var r models.Repayment
		var reversalDate sql.NullTime
		var reversalReason sql.NullString
		err := rows.Scan(
			&r.RepaymentID, &r.LoanID, &r.PaymentDate, &r.PaymentAmount,
			&r.PrincipalPaid, &r.InterestPaid, &r.FeesPaid, &r.PenaltyPaid,
			&r.IsReversed, &reversalDate, &reversalReason, &r.WaiverAmount,
			&r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		r.ReversalDate = timeOrNil(reversalDate)
		if reversalReason.Valid {
			v := reversalReason.String
			r.ReversalReason = &v
		}
		repayments = append(repayments, r)
	}
	return repayments, rows.Err()
}

func nilString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
