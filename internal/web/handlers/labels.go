package handlers

import (
	"log"
	"net/http"
)

// LabelsHandler handles the enrolled labels endpoint.
type LabelsHandler struct {
	service RecognitionService
}

// NewLabelsHandler creates a new labels handler.
func NewLabelsHandler(service RecognitionService) *LabelsHandler {
	return &LabelsHandler{service: service}
}

// Labels returns the enrolled labels in lexicographic order.
func (h *LabelsHandler) Labels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.service.Labels(r.Context())
	if err != nil {
		log.Printf("Listing labels failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load enrollments")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"labels": labels,
		"count":  len(labels),
	})
}
