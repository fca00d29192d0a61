package handlers

import (
	"log"
	"net/http"

	"github.com/kozaktomas/faceid/internal/recognition"
)

// RecognizeHandler handles the recognition endpoint.
type RecognizeHandler struct {
	service RecognitionService
}

// NewRecognizeHandler creates a new recognition handler.
func NewRecognizeHandler(service RecognitionService) *RecognizeHandler {
	return &RecognizeHandler{service: service}
}

// Recognize accepts a multipart image upload and identifies the face
// against the enrolled population.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	img, _, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.service.Recognize(r.Context(), img)
	if err != nil {
		log.Printf("Recognition failed: %v", err)
		respondError(w, http.StatusBadGateway, "inference failed")
		return
	}

	switch outcome.Status {
	case recognition.RecognizeNoFace:
		respondError(w, http.StatusUnprocessableEntity, "no face detected in image")
	case recognition.RecognizeNoEnrollments:
		respondJSON(w, http.StatusOK, map[string]any{
			"status": "no_enrollments",
		})
	case recognition.RecognizeUnknown:
		respondJSON(w, http.StatusOK, map[string]any{
			"status":   "unknown",
			"distance": outcome.Distance,
		})
	default:
		respondJSON(w, http.StatusOK, map[string]any{
			"status":   "identified",
			"label":    outcome.Label,
			"distance": outcome.Distance,
		})
	}
}
