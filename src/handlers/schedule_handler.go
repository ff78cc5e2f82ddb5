// src/handlers/schedule_handler.go
package handlers

import (
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

type ScheduleHandler struct {
	metricsService services.MetricsService
}

func NewScheduleHandler(metricsService services.MetricsService) *ScheduleHandler {
	return &ScheduleHandler{metricsService: metricsService}
}

// HandleUpsertScheduleEntries takes a batch of installments for one loan and
// recomputes that loan in the same transaction. Replacing a schedule flips
// the loan from the linear model to schedule-authoritative DPD.
func (h *ScheduleHandler) HandleUpsertScheduleEntries(w http.ResponseWriter, r *http.Request) {
	var inputs []models.ScheduleEntryInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(inputs) == 0 {
		utils.SendJSONError(w, "at least one schedule entry is required", http.StatusBadRequest)
		return
	}

	entries := make([]models.ScheduleEntry, 0, len(inputs))
	loanID := inputs[0].LoanID
	for i := range inputs {
		entry, err := scheduleEntryFromInput(&inputs[i])
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if entry.LoanID != loanID {
			utils.SendJSONError(w, "all schedule entries must target the same loan", http.StatusBadRequest)
			return
		}
		entries = append(entries, *entry)
	}

	ctx := r.Context()
	err := h.metricsService.WriteAndRecompute(ctx, loanID, func(tx *sql.Tx) error {
		if err := ensureLoan(ctx, tx, loanID); err != nil {
			return err
		}
		for i := range entries {
			if err := model.UpsertScheduleEntry(ctx, tx, &entries[i]); err != nil {
				return fmt.Errorf("upsert installment %d: %w", entries[i].InstallmentNumber, err)
			}
		}
		return nil
	})
	if errors.Is(err, services.ErrLoanNotFound) {
		utils.SendJSONError(w, "loan not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.ErrorFromContext(ctx, "failed to store schedule entries", "loanID", loanID, "error", err)
		utils.SendJSONError(w, "failed to store schedule entries", http.StatusInternalServerError)
		return
	}

	logger.InfoFromContext(ctx, "schedule entries stored", "loanID", loanID, "entries", len(entries))
	utils.SendJSON(w, map[string]any{"status": "ok", "loan_id": loanID, "entries": len(entries)}, http.StatusOK)
}

func scheduleEntryFromInput(input *models.ScheduleEntryInput) (*models.ScheduleEntry, error) {
	if input.LoanID == "" {
		return nil, fmt.Errorf("loan_id is required")
	}
	if input.InstallmentNumber <= 0 {
		return nil, fmt.Errorf("installment_number must be positive")
	}

	dueDate, err := parseDate(input.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due_date: %w", err)
	}

	status := input.Status
	if status == "" {
		status = models.InstallmentPending
	}
	switch status {
	case models.InstallmentPending, models.InstallmentPartial, models.InstallmentPaid, models.InstallmentWaived:
	default:
		return nil, fmt.Errorf("invalid status %q", status)
	}

	return &models.ScheduleEntry{
		LoanID:            cleanText(input.LoanID),
		InstallmentNumber: input.InstallmentNumber,
		DueDate:           dueDate,
		AmountDue:         input.AmountDue,
		PrincipalDue:      input.PrincipalDue,
		InterestDue:       input.InterestDue,
		FeesDue:           input.FeesDue,
		AmountPaid:        input.AmountPaid,
		Status:            status,
	}, nil
}
