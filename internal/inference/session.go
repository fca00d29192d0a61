// Package inference owns the process-wide model session. All detector and
// embedder calls go through a Session, which serializes access to the
// underlying networks. Other packages never talk to the model server directly.
package inference

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
)

// Detector finds face bounding boxes in an image. Implementations must be
// deterministic for a given image and model weights.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Box, error)
}

// Embedder computes a fixed-length embedding for a normalized face crop.
// The pixels slice is the standardized RGB data produced by the normalizer.
type Embedder interface {
	Embed(ctx context.Context, pixels []float32) ([]float32, error)
}

// ErrDimensionMismatch is returned when the embedder produces a vector whose
// length differs from the configured embedding dimension.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Session wraps the loaded detector and embedding networks. It is created
// once at process start and shared by all requests; the mutex guarantees at
// most one inference call executes at a time. Callers block while waiting,
// an aborted caller does not interrupt a queued or running call.
type Session struct {
	mu       sync.Mutex
	detector Detector
	embedder Embedder
	dim      int
}

// NewSession creates the shared inference session.
func NewSession(detector Detector, embedder Embedder, dim int) (*Session, error) {
	if detector == nil || embedder == nil {
		return nil, errors.New("inference session requires a detector and an embedder")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dim)
	}
	return &Session{detector: detector, embedder: embedder, dim: dim}, nil
}

// Dim returns the embedding dimension the session was configured with.
func (s *Session) Dim() int {
	return s.dim
}

// Detect runs face detection under the session lock. An image with no faces
// yields an empty slice, not an error.
func (s *Session) Detect(ctx context.Context, img image.Image) ([]Box, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.Detect(ctx, img)
}

// Embed runs the embedding network under the session lock and verifies the
// result has exactly the configured dimension.
func (s *Session) Embed(ctx context.Context, pixels []float32) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vec, err := s.embedder.Embed(ctx, pixels)
	if err != nil {
		return nil, err
	}
	if len(vec) != s.dim {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(vec), s.dim)
	}
	return vec, nil
}
