package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leadline/prospect-sync/internal/infra/http/middleware"
	"github.com/leadline/prospect-sync/internal/usecase"
)

type AddProspectsService interface {
	Execute(ctx context.Context, input usecase.AddProspectsInput) (*usecase.AddProspectsOutput, error)
}

type RemoveProspectsService interface {
	Execute(ctx context.Context, input usecase.RemoveProspectsInput) (*usecase.RemoveProspectsOutput, error)
}

type ProspectHandler struct {
	Add         AddProspectsService
	Remove      RemoveProspectsService
	rateLimiter *RateLimiter
}

func NewProspectHandler(add AddProspectsService, remove RemoveProspectsService) *ProspectHandler {
	return &ProspectHandler{
		Add:         add,
		Remove:      remove,
		rateLimiter: NewRateLimiter(30, time.Minute), // 30 req/min per IP
	}
}

func (h *ProspectHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
		return
	}

	var input usecase.AddProspectsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	input.CampaignID = chi.URLParam(r, "campaignID")

	output, err := h.Add.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "add prospects failed")
		return
	}

	if output.Unauthorized > 0 {
		middleware.RecordUpstreamError("auth")
	}
	if output.Failed > 0 {
		middleware.RecordUpstreamError("rejected")
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*usecase.AddProspectsOutput
	}{true, output})
}

func (h *ProspectHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
		return
	}

	var input usecase.RemoveProspectsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	input.CampaignID = chi.URLParam(r, "campaignID")

	output, err := h.Remove.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "remove prospects failed")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*usecase.RemoveProspectsOutput
	}{true, output})
}
