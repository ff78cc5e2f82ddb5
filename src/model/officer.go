package model

import (
	"context"
	"time"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

// UpsertOfficer keeps the roster row in step with whatever the loan ETL last
// reported for the officer.
func UpsertOfficer(ctx context.Context, q DBTX, o *models.Officer) error {
	query := `
	INSERT INTO officers (officer_id, officer_name, region, branch, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(officer_id) DO UPDATE SET
		officer_name = excluded.officer_name,
		region = excluded.region,
		branch = excluded.branch,
		updated_at = excluded.updated_at`

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, query, o.OfficerID, o.OfficerName, o.Region, o.Branch, now, now)
	return err
}

// OfficerAggregate is one officer's identity plus the raw metrics summed
// straight off the loans table.
type OfficerAggregate struct {
	Officer models.Officer
	Raw     models.OfficerRawMetrics
}

// AggregateOfficerMetrics computes per-officer raw metrics in a single pass
// over loans. Repayment totals come from a CTE that excludes reversed rows;
// fee and interest collections are allocated proportionally out of each
// loan's total repayments. Behaviour averages only consider loans whose
// outstanding balance is material (above threshold).
func AggregateOfficerMetrics(ctx context.Context, q DBTX, materialThreshold float64) ([]OfficerAggregate, error) {
	query := `
	WITH loan_repayments AS (
		SELECT
			l.loan_id,
			CAST(l.loan_amount AS REAL) AS loan_amount,
			CAST(COALESCE(l.interest_rate, '0') AS REAL) AS interest_rate,
			CAST(COALESCE(l.fee_amount, '0') AS REAL) AS fee_amount,
			COALESCE(SUM(CAST(r.payment_amount AS REAL)), 0) AS total_repayments
		FROM loans l
		LEFT JOIN repayments r ON l.loan_id = r.loan_id AND r.is_reversed = 0
		GROUP BY l.loan_id
	)
	SELECT
		o.officer_id,
		o.officer_name,
		o.region,
		o.branch,
		COALESCE(SUM(CASE WHEN l.fimr_tagged = 1 THEN 1 ELSE 0 END), 0) AS first_miss,
		COALESCE(COUNT(DISTINCT l.loan_id), 0) AS disbursed,
		COALESCE(SUM(CASE WHEN l.current_dpd BETWEEN 1 AND 6 THEN CAST(l.principal_outstanding AS REAL) ELSE 0 END), 0) AS dpd1to6_bal,
		COALESCE(SUM(CAST(l.total_outstanding AS REAL)), 0) AS amount_due_7d,
		COALESCE(SUM(CASE WHEN l.current_dpd BETWEEN 7 AND 30 THEN CAST(l.principal_outstanding AS REAL) ELSE 0 END), 0) AS moved_to_7to30,
		COALESCE(SUM(CASE WHEN l.previous_dpd BETWEEN 1 AND 6 THEN CAST(l.principal_outstanding AS REAL) ELSE 0 END), 0) AS prev_dpd1to6_bal,
		COALESCE(SUM(
			CASE
				WHEN lr.loan_amount * (1 + lr.interest_rate) + lr.fee_amount > 0 THEN
					lr.total_repayments * lr.fee_amount / (lr.loan_amount * (1 + lr.interest_rate) + lr.fee_amount)
				ELSE 0
			END
		), 0) AS fees_collected,
		COALESCE(SUM(CAST(COALESCE(l.fee_amount, '0') AS REAL)), 0) AS fees_due,
		COALESCE(SUM(
			CASE
				WHEN lr.loan_amount * (1 + lr.interest_rate) + lr.fee_amount > 0 THEN
					lr.total_repayments * (lr.loan_amount * lr.interest_rate) / (lr.loan_amount * (1 + lr.interest_rate) + lr.fee_amount)
				ELSE 0
			END
		), 0) AS interest_collected,
		COALESCE(SUM(CASE WHEN l.current_dpd >= 15 THEN CAST(l.principal_outstanding AS REAL) ELSE 0 END), 0) AS overdue_15d,
		COALESCE(SUM(CAST(l.principal_outstanding AS REAL)), 0) AS total_portfolio,
		COALESCE(SUM(CAST(l.principal_outstanding AS REAL)), 0) AS par15_mid_month,
		COALESCE(AVG(CASE WHEN CAST(l.total_outstanding AS REAL) > ? THEN l.timeliness_score END), 0) AS avg_timeliness_score,
		COALESCE(AVG(CASE WHEN CAST(l.total_outstanding AS REAL) > ? THEN l.repayment_health END), 0) AS avg_repayment_health,
		COALESCE(AVG(CASE WHEN CAST(l.total_outstanding AS REAL) > ? THEN l.days_since_last_repayment END), 0) AS avg_days_since_last_repayment,
		COALESCE(AVG(CASE WHEN CAST(l.total_outstanding AS REAL) > ? THEN l.loan_age END), 0) AS avg_loan_age,
		COALESCE(COUNT(CASE WHEN CAST(l.total_outstanding AS REAL) > ? THEN 1 END), 0) AS active_loans_count
	FROM officers o
	LEFT JOIN loans l ON o.officer_id = l.officer_id
	LEFT JOIN loan_repayments lr ON l.loan_id = lr.loan_id
	GROUP BY o.officer_id, o.officer_name, o.region, o.branch
	ORDER BY o.officer_name`

	rows, err := q.QueryContext(ctx, query,
		materialThreshold, materialThreshold, materialThreshold, materialThreshold, materialThreshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregates []OfficerAggregate
	for rows.Next() {
		var a OfficerAggregate
		err := rows.Scan(
			&a.Officer.OfficerID, &a.Officer.OfficerName, &a.Officer.Region, &a.Officer.Branch,
			&a.Raw.FirstMiss, &a.Raw.Disbursed, &a.Raw.Dpd1to6Bal, &a.Raw.AmountDue7d,
			&a.Raw.MovedTo7to30, &a.Raw.PrevDpd1to6Bal, &a.Raw.FeesCollected, &a.Raw.FeesDue,
			&a.Raw.InterestCollected, &a.Raw.Overdue15d, &a.Raw.TotalPortfolio, &a.Raw.Par15MidMonth,
			&a.Raw.AvgTimelinessScore, &a.Raw.AvgRepaymentHealth, &a.Raw.AvgDaysSinceLastRepayment,
			&a.Raw.AvgLoanAge, &a.Raw.ActiveLoansCount,
		)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, a)
	}
	return aggregates, rows.Err()
}
