package identify

import (
	"math"
	"testing"

	"github.com/kozaktomas/faceid/internal/store"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"unit apart", []float32{0, 0}, []float32{1, 0}, 1},
		{"pythagorean", []float32{0, 0}, []float32{3, 4}, 5},
		{"negative values", []float32{-1, -1}, []float32{1, 1}, 2 * math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EuclideanDistance(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("EuclideanDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestEuclideanDistance_InvalidInputs(t *testing.T) {
	if d := EuclideanDistance([]float32{1, 2}, []float32{1, 2, 3}); !math.IsInf(d, 1) {
		t.Errorf("expected +Inf for length mismatch, got %v", d)
	}
	if d := EuclideanDistance(nil, nil); !math.IsInf(d, 1) {
		t.Errorf("expected +Inf for empty vectors, got %v", d)
	}
}

func TestIdentify_EmptySnapshot(t *testing.T) {
	res := Identify([]float32{1, 2, 3}, store.Snapshot{}, 100)
	if res.Outcome != NoEnrollments {
		t.Errorf("expected NoEnrollments for empty snapshot, got %v", res.Outcome)
	}
}

func TestIdentify_SelfMatch(t *testing.T) {
	q := []float32{0.25, -0.5, 0.75}
	snapshot := store.Snapshot{"alice": q}

	// Self-match distance is exactly 0, accepted for any threshold >= 0.
	res := Identify(q, snapshot, 0)
	if res.Outcome != Matched {
		t.Fatalf("expected Matched, got %v", res.Outcome)
	}
	if res.Label != "alice" {
		t.Errorf("expected label 'alice', got '%s'", res.Label)
	}
	if res.Distance != 0 {
		t.Errorf("expected distance 0, got %v", res.Distance)
	}
}

func TestIdentify_NearestWins(t *testing.T) {
	snapshot := store.Snapshot{
		"far":    {10, 10, 10},
		"near":   {1, 0, 0},
		"nearer": {0.5, 0, 0},
	}

	res := Identify([]float32{0, 0, 0}, snapshot, 2)
	if res.Outcome != Matched {
		t.Fatalf("expected Matched, got %v", res.Outcome)
	}
	if res.Label != "nearer" {
		t.Errorf("expected nearest label 'nearer', got '%s'", res.Label)
	}
}

func TestIdentify_BeyondThresholdIsUnknown(t *testing.T) {
	snapshot := store.Snapshot{"alice": {10, 0, 0}}

	res := Identify([]float32{0, 0, 0}, snapshot, 2)
	if res.Outcome != Unknown {
		t.Fatalf("expected Unknown, got %v", res.Outcome)
	}
	if res.Label != "" {
		t.Errorf("Unknown result must not carry a label, got '%s'", res.Label)
	}
	if res.Distance != 10 {
		t.Errorf("expected nearest distance 10, got %v", res.Distance)
	}
}

func TestIdentify_ThresholdIsInclusive(t *testing.T) {
	// Distance is exactly 1; a threshold of exactly 1 must accept.
	snapshot := store.Snapshot{"alice": {1, 0, 0}}

	res := Identify([]float32{0, 0, 0}, snapshot, 1)
	if res.Outcome != Matched {
		t.Errorf("expected Matched at the exact threshold boundary, got %v", res.Outcome)
	}
}

func TestIdentify_TieBreakLexicographic(t *testing.T) {
	vec := []float32{1, 0, 0}
	snapshot := store.Snapshot{
		"zoe":   vec,
		"alice": vec,
		"bob":   vec,
	}

	// All three are at the same distance; the smallest label must win
	// every time, regardless of map iteration order.
	for n := 0; n < 50; n++ {
		res := Identify([]float32{0, 0, 0}, snapshot, 2)
		if res.Outcome != Matched {
			t.Fatalf("expected Matched, got %v", res.Outcome)
		}
		if res.Label != "alice" {
			t.Fatalf("tie-break not deterministic: got '%s', want 'alice'", res.Label)
		}
	}
}
