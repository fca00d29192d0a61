// Package identify matches a query embedding against an enrolled population
// by nearest-neighbor search under a distance threshold.
package identify

import (
	"math"

	"github.com/kozaktomas/faceid/internal/store"
)

// Outcome classifies an identification attempt.
type Outcome int

const (
	// Matched means the nearest enrolled vector was within the threshold.
	Matched Outcome = iota
	// Unknown means the population did not contain a close enough match.
	Unknown
	// NoEnrollments means the store snapshot was empty. Callers must be
	// able to tell "nobody enrolled yet" from "no match".
	NoEnrollments
)

// Result is the outcome of one identification. Label and Distance are only
// meaningful when Outcome is Matched (Distance is also set for Unknown so
// callers can log how far off the nearest neighbor was).
type Result struct {
	Outcome  Outcome
	Label    string
	Distance float64
}

// EuclideanDistance returns the L2 distance between two vectors. Mismatched
// or empty inputs yield +Inf so they can never satisfy a threshold.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Identify finds the enrolled vector nearest to query. The threshold is
// inclusive: a distance exactly equal to it is accepted. When several
// entries share the exact minimum distance the lexicographically smallest
// label wins, so results never vary run-to-run.
func Identify(query []float32, snapshot store.Snapshot, threshold float64) Result {
	if len(snapshot) == 0 {
		return Result{Outcome: NoEnrollments}
	}

	bestLabel := ""
	bestDist := math.Inf(1)
	for label, vec := range snapshot {
		d := EuclideanDistance(query, vec)
		if d < bestDist || (d == bestDist && label < bestLabel) {
			bestDist = d
			bestLabel = label
		}
	}

	if bestDist <= threshold {
		return Result{Outcome: Matched, Label: bestLabel, Distance: bestDist}
	}
	return Result{Outcome: Unknown, Distance: bestDist}
}
