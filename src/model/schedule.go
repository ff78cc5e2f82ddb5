package model

import (
	"context"
	"time"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

// UpsertScheduleEntry writes one installment keyed by (loan_id, installment_number).
func UpsertScheduleEntry(ctx context.Context, q DBTX, s *models.ScheduleEntry) error {
	query := `
	INSERT INTO schedule_entries (
		loan_id, installment_number, due_date, amount_due,
		principal_due, interest_due, fees_due, amount_paid, status,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(loan_id, installment_number) DO UPDATE SET
		due_date = excluded.due_date,
		amount_due = excluded.amount_due,
		principal_due = excluded.principal_due,
		interest_due = excluded.interest_due,
		fees_due = excluded.fees_due,
		amount_paid = excluded.amount_paid,
		status = excluded.status,
		updated_at = excluded.updated_at`

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, query,
		s.LoanID, s.InstallmentNumber, s.DueDate, s.AmountDue.String(),
		s.PrincipalDue.String(), s.InterestDue.String(), s.FeesDue.String(),
		s.AmountPaid.String(), s.Status,
		now, now,
	)
	return err
}

// GetScheduleForLoan returns the loan's installments in due-date order; an
// empty slice means the loan has no schedule and falls back to the linear model.
func GetScheduleForLoan(ctx context.Context, q DBTX, loanID string) ([]models.ScheduleEntry, error) {
	query := `
	SELECT loan_id, installment_number, due_date, amount_due,
		principal_due, interest_due, fees_due, amount_paid, status,
		created_at, updated_at
	FROM schedule_entries
	WHERE loan_id = ?
	ORDER BY due_date, installment_number`

	rows, err := q.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var s models.ScheduleEntry
		err := rows.Scan(
			&s.LoanID, &s.InstallmentNumber, &s.DueDate, &s.AmountDue,
			&s.PrincipalDue, &s.InterestDue, &s.FeesDue, &s.AmountPaid, &s.Status,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}
