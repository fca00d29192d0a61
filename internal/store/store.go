// Package store persists labeled face embeddings. Two backends exist: a
// directory of one file per label (the default) and PostgreSQL with pgvector.
// Both provide the same narrow contract: save overwrites, loadAll snapshots.
//
// There is no cross-entry isolation. A LoadAll that races a Save may or may
// not include the new entry; each entry is atomic, so a reader never sees a
// partially written vector. Deletion is not part of the contract;
// re-enrollment under the same label is the only mutation path.
package store

import "context"

// Snapshot is a point-in-time copy of the enrolled population, keyed by
// label. It is private to the request that loaded it; no locking is needed.
type Snapshot map[string][]float32

// Store is the durable mapping from identity label to embedding vector.
type Store interface {
	// Save durably writes vec under label, replacing any previous entry.
	Save(ctx context.Context, label string, vec []float32) error
	// LoadAll returns a snapshot of every readable entry. An empty store
	// yields an empty snapshot, not an error. Corrupt entries are skipped.
	LoadAll(ctx context.Context) (Snapshot, error)
	// Count returns the number of enrolled labels.
	Count(ctx context.Context) (int, error)
}
