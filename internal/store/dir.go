package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// embExt is the extension of embedding files; the filename minus the
// extension is the label.
const embExt = ".emb"

// ErrEmptyLabel is returned when saving under an empty label.
var ErrEmptyLabel = errors.New("label must not be empty")

// ErrInvalidLabel is returned when a label would resolve to a path outside
// the store directory.
var ErrInvalidLabel = errors.New("label must not contain path separators")

// ValidateLabel rejects labels that are empty or carry path segments. The
// label becomes a filename, so anything that would escape the owning
// directory is refused before it reaches the filesystem.
func ValidateLabel(label string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if label != filepath.Base(label) || strings.ContainsAny(label, `/\`) || label == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return nil
}

// DirStore keeps one file per enrolled label in a single directory. The file
// payload is the raw little-endian float32 vector, exactly 4*dim bytes.
type DirStore struct {
	dir string
	dim int
}

// NewDirStore creates the backing directory if needed and returns the store.
func NewDirStore(dir string, dim int) (*DirStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dim)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create embeddings directory: %w", err)
	}
	return &DirStore{dir: dir, dim: dim}, nil
}

// Save writes the vector under label. The write goes to a temp file in the
// same directory first and is renamed into place, so a concurrent LoadAll
// sees either the old entry or the new one, never a torn write.
func (s *DirStore) Save(_ context.Context, label string, vec []float32) error {
	if err := ValidateLabel(label); err != nil {
		return err
	}
	if len(vec) != s.dim {
		return fmt.Errorf("vector has %d values, store expects %d", len(vec), s.dim)
	}

	tmp := filepath.Join(s.dir, fmt.Sprintf(".%s-%s.tmp", label, uuid.NewString()))
	if err := os.WriteFile(tmp, encodeVector(vec), 0o644); err != nil {
		return fmt.Errorf("failed to write embedding: %w", err)
	}

	final := filepath.Join(s.dir, label+embExt)
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to publish embedding: %w", err)
	}
	return nil
}

// LoadAll scans the directory and returns every decodable entry. A corrupt
// or unreadable file is logged and skipped; one bad entry must not block
// recognition against the rest of the population.
func (s *DirStore) LoadAll(_ context.Context) (Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read embeddings directory: %w", err)
	}

	snapshot := make(Snapshot, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, embExt) || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			log.Printf("Warning: skipping unreadable embedding %s: %v", name, err)
			continue
		}

		vec, err := decodeVector(data, s.dim)
		if err != nil {
			log.Printf("Warning: skipping corrupt embedding %s: %v", name, err)
			continue
		}

		snapshot[strings.TrimSuffix(name, embExt)] = vec
	}
	return snapshot, nil
}

// Count returns the number of embedding files in the directory.
func (s *DirStore) Count(_ context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read embeddings directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, embExt) && !strings.HasPrefix(name, ".") {
			count++
		}
	}
	return count, nil
}

// encodeVector serializes a vector as little-endian float32 values.
func encodeVector(vec []float32) []byte {
	data := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return data
}

// decodeVector parses a payload that must hold exactly dim float32 values.
func decodeVector(data []byte, dim int) ([]float32, error) {
	if len(data) != 4*dim {
		return nil, fmt.Errorf("payload is %d bytes, want %d", len(data), 4*dim)
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, nil
}
