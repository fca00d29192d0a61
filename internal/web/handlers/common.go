package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/kozaktomas/faceid/internal/recognition"
)

// maxUploadSize limits a single face image upload to 16 MB.
const maxUploadSize = 16 << 20

// RecognitionService is the slice of the recognition workflow the HTTP
// handlers need.
type RecognitionService interface {
	Enroll(ctx context.Context, img image.Image, label string) (recognition.EnrollOutcome, error)
	Recognize(ctx context.Context, img image.Image) (recognition.RecognizeOutcome, error)
	Labels(ctx context.Context) ([]string, error)
}

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// allowedExtension reports whether the upload's extension is one the
// decoder is expected to handle.
func allowedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// readImageUpload pulls the "file" part out of a multipart request,
// validates the extension and decodes it. Rejecting here keeps bad uploads
// away from the inference gateway entirely.
func readImageUpload(r *http.Request) (image.Image, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", errors.New("failed to parse multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errors.New("missing file upload")
	}
	defer file.Close()

	if !allowedExtension(header.Filename) {
		return nil, "", fmt.Errorf("unsupported file type: %s", filepath.Ext(header.Filename))
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, "", errors.New("file is not a decodable image")
	}

	return img, header.Filename, nil
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
