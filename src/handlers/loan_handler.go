// src/handlers/loan_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LibertytechX/seeds-metrics-sub003/src/database"
	"github.com/LibertytechX/seeds-metrics-sub003/src/logger"
	"github.com/LibertytechX/seeds-metrics-sub003/src/model"
	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
	"github.com/LibertytechX/seeds-metrics-sub003/src/security/validation"
	"github.com/LibertytechX/seeds-metrics-sub003/src/services"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
)

const dateLayout = "2006-01-02"

type LoanHandler struct {
	metricsService services.MetricsService
}

func NewLoanHandler(metricsService services.MetricsService) *LoanHandler {
	return &LoanHandler{metricsService: metricsService}
}

// HandleUpsertLoan is the ETL write path for loan terms. It refreshes the
// roster row for the officer, writes the term columns and recomputes the
// loan's derived block, all in one transaction.
func (h *LoanHandler) HandleUpsertLoan(w http.ResponseWriter, r *http.Request) {
	var input models.LoanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	loan, err := loanFromInput(&input)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	officer := &models.Officer{
		OfficerID:   loan.OfficerID,
		OfficerName: loan.OfficerName,
		Region:      loan.Region,
		Branch:      loan.Branch,
	}
	err = h.metricsService.WriteAndRecompute(ctx, loan.LoanID, func(tx *sql.Tx) error {
		if err := model.UpsertOfficer(ctx, tx, officer); err != nil {
			return fmt.Errorf("upsert officer %s: %w", officer.OfficerID, err)
		}
		return model.UpsertLoan(ctx, tx, loan)
	})
	if err != nil {
		logger.ErrorFromContext(ctx, "failed to upsert loan", "loanID", loan.LoanID, "error", err)
		utils.SendJSONError(w, "failed to store loan", http.StatusInternalServerError)
		return
	}

	logger.InfoFromContext(ctx, "loan upserted", "loanID", loan.LoanID, "officerID", loan.OfficerID)
	utils.SendJSON(w, map[string]string{"status": "ok", "loan_id": loan.LoanID}, http.StatusOK)
}

// HandleGetLoan returns one loan with its full derived block.
func (h *LoanHandler) HandleGetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanID")
	if loanID == "" {
		utils.SendJSONError(w, "loanID is required", http.StatusBadRequest)
		return
	}

	loan, err := model.GetLoanByID(r.Context(), database.DB, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		utils.SendJSONError(w, "loan not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.ErrorFromContext(r.Context(), "failed to load loan", "loanID", loanID, "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, loan, http.StatusOK)
}

func loanFromInput(input *models.LoanInput) (*models.Loan, error) {
	if input.LoanID == "" {
		return nil, fmt.Errorf("loan_id is required")
	}
	if input.OfficerID == "" {
		return nil, fmt.Errorf("officer_id is required")
	}
	if !input.LoanAmount.IsPositive() {
		return nil, fmt.Errorf("loan_amount must be positive")
	}
	if input.LoanTermDays <= 0 {
		return nil, fmt.Errorf("loan_term_days must be positive")
	}

	disbursement, err := parseDate(input.DisbursementDate)
	if err != nil {
		return nil, fmt.Errorf("invalid disbursement_date: %w", err)
	}
	maturity, err := parseDate(input.MaturityDate)
	if err != nil {
		return nil, fmt.Errorf("invalid maturity_date: %w", err)
	}
	if maturity.Before(disbursement) {
		return nil, fmt.Errorf("maturity_date precedes disbursement_date")
	}

	loan := &models.Loan{
		LoanID:           cleanText(input.LoanID),
		CustomerID:       cleanText(input.CustomerID),
		CustomerName:     cleanText(input.CustomerName),
		OfficerID:        cleanText(input.OfficerID),
		OfficerName:      cleanText(input.OfficerName),
		Region:           cleanText(input.Region),
		Branch:           cleanText(input.Branch),
		LoanAmount:       input.LoanAmount,
		InterestRate:     input.InterestRate,
		FeeAmount:        input.FeeAmount,
		DisbursementDate: disbursement,
		MaturityDate:     maturity,
		LoanTermDays:     input.LoanTermDays,
		Status:           cleanText(input.Status),
	}
	if loan.Status == "" {
		loan.Status = "Active"
	}
	loan.VerificationStatus = "UNVERIFIED"

	if input.ClosedDate != nil && *input.ClosedDate != "" {
		closed, err := parseDate(*input.ClosedDate)
		if err != nil {
			return nil, fmt.Errorf("invalid closed_date: %w", err)
		}
		loan.ClosedDate = &closed
	}
	if input.FirstDueDate != nil && *input.FirstDueDate != "" {
		due, err := parseDate(*input.FirstDueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid first_due_date: %w", err)
		}
		loan.SyncedFirstDueDate = &due
	}

	return loan, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func cleanText(s string) string {
	return validation.SanitizeText(validation.StripUnprintable(s))
}
