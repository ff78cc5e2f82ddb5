// src/handlers/repayment_handler.go
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/LibertytechX/seeds-metrics-sub003/src/logger"
	"github.com/LibertytechX/seeds-metrics-sub003/src/model"
	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
	"github.com/LibertytechX/seeds-metrics-sub003/src/services"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
)

type RepaymentHandler struct {
	metricsService services.MetricsService
}

func NewRepaymentHandler(metricsService services.MetricsService) *RepaymentHandler {
	return &RepaymentHandler{metricsService: metricsService}
}

// HandleUpsertRepayment writes one ledger row and recomputes the loan inside
// the same transaction, so the ledger and the derived fields can never be
// observed out of step. Reversals arrive as a re-post of the same
// repayment_id with is_reversed set.
func (h *RepaymentHandler) HandleUpsertRepayment(w http.ResponseWriter, r *http.Request) {
	var input models.RepaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	repayment, err := repaymentFromInput(&input)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err = h.metricsService.WriteAndRecompute(ctx, repayment.LoanID, func(tx *sql.Tx) error {
		if err := ensureLoan(ctx, tx, repayment.LoanID); err != nil {
			return err
		}
		return model.UpsertRepayment(ctx, tx, repayment)
	})
	if errors.Is(err, services.ErrLoanNotFound) {
		utils.SendJSONError(w, "loan not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.ErrorFromContext(ctx, "failed to record repayment", "repaymentID", repayment.RepaymentID, "error", err)
		utils.SendJSONError(w, "failed to store repayment", http.StatusInternalServerError)
		return
	}

	logger.InfoFromContext(ctx, "repayment recorded",
		"repaymentID", repayment.RepaymentID, "loanID", repayment.LoanID, "reversed", repayment.IsReversed)
	utils.SendJSON(w, map[string]string{"status": "ok", "repayment_id": repayment.RepaymentID}, http.StatusOK)
}

func repaymentFromInput(input *models.RepaymentInput) (*models.Repayment, error) {
	if input.RepaymentID == "" {
		return nil, fmt.Errorf("repayment_id is required")
	}
	if input.LoanID == "" {
		return nil, fmt.Errorf("loan_id is required")
	}
	if input.PaymentAmount.IsNegative() {
		return nil, fmt.Errorf("payment_amount cannot be negative")
	}

	paymentDate, err := parseDate(input.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid payment_date: %w", err)
	}

	repayment := &models.Repayment{
		RepaymentID:   cleanText(input.RepaymentID),
		LoanID:        cleanText(input.LoanID),
		PaymentDate:   paymentDate,
		PaymentAmount: input.PaymentAmount,
		PrincipalPaid: input.PrincipalPaid,
		InterestPaid:  input.InterestPaid,
		FeesPaid:      input.FeesPaid,
		PenaltyPaid:   input.PenaltyPaid,
		IsReversed:    input.IsReversed,
		WaiverAmount:  input.WaiverAmount,
	}

	if input.ReversalDate != nil && *input.ReversalDate != "" {
		reversalDate, err := parseDate(*input.ReversalDate)
		if err != nil {
			return nil, fmt.Errorf("invalid reversal_date: %w", err)
		}
		repayment.ReversalDate = &reversalDate
	}
	if input.ReversalReason != nil {
		reason := cleanText(*input.ReversalReason)
		repayment.ReversalReason = &reason
	}
	if repayment.IsReversed && repayment.ReversalDate == nil {
		return nil, fmt.Errorf("reversal_date is required when is_reversed is set")
	}

	return repayment, nil
}

// ensureLoan is a cheap FK-style guard for the ledger write paths, where a
// missing loan would otherwise surface as a confusing constraint error.
func ensureLoan(ctx context.Context, q model.DBTX, loanID string) error {
	_, err := model.GetLoanByID(ctx, q, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", services.ErrLoanNotFound, loanID)
	}
	return err
}
