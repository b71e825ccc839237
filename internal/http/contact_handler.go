package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Bipin-Neupane/baby-sub001/internal/contact"
)

type ContactHandler struct {
	intake  *contact.Intake
	timeout time.Duration
}

func NewContactHandler(intake *contact.Intake, timeout time.Duration) *ContactHandler {
	return &ContactHandler{
		intake:  intake,
		timeout: timeout,
	}
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var sub contact.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := h.intake.Submit(ctx, sub); err != nil {
		respondError(w, http.StatusInternalServerError, "intake_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, ContactResponse{
		Success: true,
		Message: "Message sent successfully",
	})
}
