package identify

import (
	"sync"

	"github.com/coder/hnsw"
)

const (
	// indexMaxNeighbors is the HNSW M parameter.
	indexMaxNeighbors = 16
	// indexSearchK is how many approximate candidates are pulled from the
	// graph before the exact re-check.
	indexSearchK = 8
)

// Index is an approximate-nearest-neighbor accelerator over one enrolled
// snapshot. The graph narrows the search to a handful of candidates and the
// exact Euclidean distance decides among them, so threshold semantics and
// tie-breaking match the linear scan. Build a fresh Index per snapshot; like
// the snapshot itself it does not see later enrollments.
type Index struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[string]
	count int
}

// BuildIndex constructs an index over the snapshot. A population small
// enough for a linear scan does not need one; this exists for large
// populations where the full scan dominates recognition latency.
func BuildIndex(snapshot map[string][]float32) *Index {
	ix := &Index{}
	if len(snapshot) == 0 {
		return ix
	}

	g := hnsw.NewGraph[string]()
	g.M = indexMaxNeighbors
	g.Ml = 1.0 / float64(indexMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance

	for label, vec := range snapshot {
		if len(vec) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(label, vec))
		ix.count++
	}
	ix.graph = g
	return ix
}

// Count returns the number of indexed entries.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.count
}

// Identify resolves the query against the indexed population with the same
// outcome semantics as the linear Identify: inclusive threshold and
// lexicographic tie-break on exact minimum distance.
func (ix *Index) Identify(query []float32, threshold float64) Result {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.count == 0 || ix.graph == nil {
		return Result{Outcome: NoEnrollments}
	}

	k := indexSearchK
	if ix.count < k {
		k = ix.count
	}
	neighbors := ix.graph.Search(query, k)
	if len(neighbors) == 0 {
		return Result{Outcome: Unknown, Distance: EuclideanDistance(nil, nil)}
	}

	// Re-rank candidates by exact distance; the graph's own ordering is
	// approximate.
	candidates := make(map[string][]float32, len(neighbors))
	for _, n := range neighbors {
		candidates[n.Key] = n.Value
	}
	return Identify(query, candidates, threshold)
}
