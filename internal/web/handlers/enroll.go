package handlers

import (
	"log"
	"net/http"

	"github.com/kozaktomas/faceid/internal/recognition"
)

// EnrollHandler handles the enrollment endpoint.
type EnrollHandler struct {
	service RecognitionService
}

// NewEnrollHandler creates a new enrollment handler.
func NewEnrollHandler(service RecognitionService) *EnrollHandler {
	return &EnrollHandler{service: service}
}

// Enroll accepts a multipart image upload and stores its face embedding.
// The label comes from the uploaded filename unless an explicit "label"
// form field is provided.
func (h *EnrollHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	img, filename, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var label string
	if explicit := r.FormValue("label"); explicit != "" {
		label = recognition.SanitizeLabel(explicit)
	} else {
		label = recognition.LabelFromFilename(filename)
	}
	if label == "" {
		respondError(w, http.StatusBadRequest, "could not derive a usable label")
		return
	}

	outcome, err := h.service.Enroll(r.Context(), img, label)
	if err != nil {
		log.Printf("Enrollment of %s failed: %v", sanitizeForLog(label), err)
		respondError(w, http.StatusBadGateway, "inference failed")
		return
	}

	switch outcome.Status {
	case recognition.EnrollNoFace:
		respondError(w, http.StatusUnprocessableEntity, "no face detected in image")
	case recognition.EnrollStoreFailed:
		log.Printf("Storing embedding for %s failed: %v", sanitizeForLog(label), outcome.Err)
		respondError(w, http.StatusInternalServerError, "failed to store embedding")
	default:
		respondJSON(w, http.StatusCreated, map[string]string{
			"status": "enrolled",
			"label":  outcome.Label,
		})
	}
}
