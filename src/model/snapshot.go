package model

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

// ErrNoSnapshot is returned by the snapshot readers when no calculation run
// has been persisted yet.
var ErrNoSnapshot = errors.New("no snapshot available")

// ReplaceOfficerSnapshots swaps the stored officer snapshots for a new run in
// one statement pair. Callers wrap this in a transaction together with
// ReplacePortfolioSnapshot so readers never see a half-written run.
func ReplaceOfficerSnapshots(ctx context.Context, q DBTX, snapshots []models.OfficerSnapshot) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM officer_snapshots`); err != nil {
		return err
	}

	query := `
	INSERT INTO officer_snapshots (
		run_id, officer_id, officer_name, region, branch,
		calculated_at, raw_metrics, calculated_metrics, risk_band
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i := range snapshots {
		s := &snapshots[i]
		rawJSON, err := json.Marshal(s.Raw)
		if err != nil {
			return err
		}
		calcJSON, err := json.Marshal(s.Calculated)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, query,
			s.RunID, s.OfficerID, s.OfficerName, s.Region, s.Branch,
			s.CalculatedAt, string(rawJSON), string(calcJSON), s.RiskBand,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetOfficerSnapshots returns the stored run's snapshots in officer-name order.
func GetOfficerSnapshots(ctx context.Context, q DBTX) ([]models.OfficerSnapshot, error) {
	query := `
	SELECT run_id, officer_id, officer_name, region, branch,
		calculated_at, raw_metrics, calculated_metrics, risk_band
	FROM officer_snapshots
	ORDER BY officer_name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.OfficerSnapshot
	for rows.Next() {
		var s models.OfficerSnapshot
		var rawJSON, calcJSON string
		err := rows.Scan(
			&s.RunID, &s.OfficerID, &s.OfficerName, &s.Region, &s.Branch,
			&s.CalculatedAt, &rawJSON, &calcJSON, &s.RiskBand,
		)
		if err != nil {
			return nil, err
		}
		s.Raw = &models.OfficerRawMetrics{}
		if err := json.Unmarshal([]byte(rawJSON), s.Raw); err != nil {
			return nil, err
		}
		s.Calculated = &models.OfficerCalculatedMetrics{}
		if err := json.Unmarshal([]byte(calcJSON), s.Calculated); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// ReplacePortfolioSnapshot swaps the stored portfolio rollup for the new run.
func ReplacePortfolioSnapshot(ctx context.Context, q DBTX, snap *models.PortfolioSnapshot) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM portfolio_snapshots`); err != nil {
		return err
	}

	metricsJSON, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO portfolio_snapshots (run_id, calculated_at, metrics) VALUES (?, ?, ?)`,
		snap.RunID, snap.CalculatedAt, string(metricsJSON),
	)
	return err
}

// GetPortfolioSnapshot returns the stored portfolio rollup, ErrNoSnapshot
// when no run exists.
func GetPortfolioSnapshot(ctx context.Context, q DBTX) (*models.PortfolioSnapshot, error) {
	var metricsJSON string
	err := q.QueryRowContext(ctx, `SELECT metrics FROM portfolio_snapshots ORDER BY calculated_at DESC LIMIT 1`).Scan(&metricsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var snap models.PortfolioSnapshot
	if err := json.Unmarshal([]byte(metricsJSON), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
