package inference

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeDetector struct {
	boxes []Box
	err   error
}

func (d *fakeDetector) Detect(_ context.Context, _ image.Image) ([]Box, error) {
	return d.boxes, d.err
}

// fakeEmbedder records overlapping calls so tests can prove serialization.
type fakeEmbedder struct {
	dim      int
	inFlight atomic.Int32
	overlaps atomic.Int32
	calls    atomic.Int32
}

func (e *fakeEmbedder) Embed(_ context.Context, pixels []float32) ([]float32, error) {
	if e.inFlight.Add(1) > 1 {
		e.overlaps.Add(1)
	}
	defer e.inFlight.Add(-1)
	e.calls.Add(1)

	// Deterministic output derived from the input so callers can verify
	// their own result was not mixed with another request's.
	vec := make([]float32, e.dim)
	var sum float32
	for _, p := range pixels {
		sum += p
	}
	for i := range vec {
		vec[i] = sum
	}
	return vec, nil
}

func TestNewSession_Validation(t *testing.T) {
	det := &fakeDetector{}
	emb := &fakeEmbedder{dim: 4}

	if _, err := NewSession(nil, emb, 4); err == nil {
		t.Error("expected error for nil detector")
	}
	if _, err := NewSession(det, nil, 4); err == nil {
		t.Error("expected error for nil embedder")
	}
	if _, err := NewSession(det, emb, 0); err == nil {
		t.Error("expected error for zero dimension")
	}
	if _, err := NewSession(det, emb, 4); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSession_DetectPassesThrough(t *testing.T) {
	want := []Box{{X1: 1, Y1: 2, X2: 30, Y2: 40, Score: 0.99}}
	session, err := NewSession(&fakeDetector{boxes: want}, &fakeEmbedder{dim: 4}, 4)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	got, err := session.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("Detect returned %v, want %v", got, want)
	}
}

func TestSession_DetectNoFaces(t *testing.T) {
	session, err := NewSession(&fakeDetector{}, &fakeEmbedder{dim: 4}, 4)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	boxes, err := session.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(boxes) != 0 {
		t.Errorf("expected no boxes, got %d", len(boxes))
	}
}

func TestSession_EmbedChecksDimension(t *testing.T) {
	// Embedder produces 4 values, session configured for 8.
	session, err := NewSession(&fakeDetector{}, &fakeEmbedder{dim: 4}, 8)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	_, err = session.Embed(context.Background(), []float32{1, 2, 3})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSession_EmbedDeterministic(t *testing.T) {
	session, err := NewSession(&fakeDetector{}, &fakeEmbedder{dim: 4}, 4)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	pixels := []float32{0.5, -0.25, 1.5}
	first, err := session.Embed(context.Background(), pixels)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	second, err := session.Embed(context.Background(), pixels)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("identical crops produced different vectors: %v vs %v", first, second)
		}
	}
}

func TestSession_EmbedSerialized(t *testing.T) {
	const workers = 32

	emb := &fakeEmbedder{dim: 4}
	session, err := NewSession(&fakeDetector{}, emb, 4)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			pixels := []float32{float32(i), float32(i), float32(i)}
			vec, err := session.Embed(context.Background(), pixels)
			if err != nil {
				t.Errorf("Embed failed: %v", err)
				return
			}
			want := float32(3 * i)
			for _, v := range vec {
				if v != want {
					t.Errorf("worker %d got mixed result %v, want all %v", i, vec, want)
					return
				}
			}
		}()
	}
	wg.Wait()

	if n := emb.calls.Load(); n != workers {
		t.Errorf("expected %d embed calls, got %d", workers, n)
	}
	if n := emb.overlaps.Load(); n != 0 {
		t.Errorf("observed %d overlapping embed calls, session must serialize", n)
	}
}
