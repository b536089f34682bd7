package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/leadline/prospect-sync/internal/infra/http/middleware"
	"github.com/leadline/prospect-sync/internal/usecase"
)

type SyncService interface {
	Execute(ctx context.Context, input usecase.SyncCampaignsInput) (*usecase.SyncCampaignsOutput, error)
}

type SyncHandler struct {
	Sync SyncService
}

func NewSyncHandler(sync SyncService) *SyncHandler {
	return &SyncHandler{Sync: sync}
}

// Handle runs a sync pass synchronously and returns the aggregate counts.
// Scheduled and post-mutation syncs go through the queue instead.
func (h *SyncHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.SyncCampaignsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	start := time.Now()
	output, err := h.Sync.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	middleware.ObserveReconciliation(time.Since(start))
	middleware.RecordMembershipChanges(output.Inserted, output.Updated, output.SoftDeleted)

	writeJSON(w, http.StatusOK, output)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
