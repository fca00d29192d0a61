// Package recognition orchestrates the enrollment and recognition workflows:
// detect, normalize, embed, then either persist under a label or match
// against the enrolled population. It is the only package the HTTP and CLI
// layers talk to.
package recognition

import (
	"context"
	"fmt"
	"image"
	"log"
	"sort"
	"sync"

	"github.com/kozaktomas/faceid/internal/identify"
	"github.com/kozaktomas/faceid/internal/inference"
	"github.com/kozaktomas/faceid/internal/normalize"
	"github.com/kozaktomas/faceid/internal/store"
)

// EnrollStatus classifies the outcome of one enrollment attempt.
type EnrollStatus int

const (
	EnrollOK EnrollStatus = iota
	EnrollNoFace
	EnrollStoreFailed
)

// EnrollOutcome reports what happened to an enrollment. Err is set only for
// EnrollStoreFailed.
type EnrollOutcome struct {
	Status EnrollStatus
	Label  string
	Err    error
}

// RecognizeStatus classifies the outcome of one recognition attempt.
type RecognizeStatus int

const (
	RecognizeIdentified RecognizeStatus = iota
	RecognizeUnknown
	RecognizeNoEnrollments
	RecognizeNoFace
)

// RecognizeOutcome reports the result of a recognition. Label and Distance
// are set when Status is RecognizeIdentified; Distance is also set for
// RecognizeUnknown.
type RecognizeOutcome struct {
	Status   RecognizeStatus
	Label    string
	Distance float64
}

// indexCutoff is the population size at which recognition switches from
// the exact linear scan to the HNSW index. Below it the scan is cheaper
// than maintaining a graph.
const indexCutoff = 256

// Service wires the inference session, the embedding store and the
// identification engine together.
type Service struct {
	session   *inference.Session
	store     store.Store
	imageSize int
	threshold float64
	archive   *CropArchive // nil disables crop archival

	// index accelerates recognition over large populations. Rebuilt
	// lazily when the snapshot size changes, dropped on enroll.
	indexMu   sync.Mutex
	index     *identify.Index
	indexSize int
}

// NewService creates the workflow service. archive may be nil.
func NewService(session *inference.Session, st store.Store, imageSize int, threshold float64, archive *CropArchive) *Service {
	return &Service{
		session:   session,
		store:     st,
		imageSize: imageSize,
		threshold: threshold,
		archive:   archive,
	}
}

// normalizeFace runs detection and crop normalization. The bool result
// follows the normalizer: false means no usable face, which is a regular
// outcome for the caller, not an error. The embedder is never invoked for
// such images.
func (s *Service) normalizeFace(ctx context.Context, img image.Image) (*normalize.FaceCrop, bool, error) {
	boxes, err := s.session.Detect(ctx, img)
	if err != nil {
		return nil, false, fmt.Errorf("face detection: %w", err)
	}
	crop, ok := normalize.Normalize(img, boxes, s.imageSize)
	return crop, ok, nil
}

// Enroll computes the embedding for the face in img and persists it under
// label, overwriting any earlier enrollment for the same label. A storage
// failure is an outcome for the caller, not a retried operation.
func (s *Service) Enroll(ctx context.Context, img image.Image, label string) (EnrollOutcome, error) {
	crop, ok, err := s.normalizeFace(ctx, img)
	if err != nil {
		return EnrollOutcome{}, err
	}
	if !ok {
		return EnrollOutcome{Status: EnrollNoFace}, nil
	}

	vec, err := s.session.Embed(ctx, crop.Pixels)
	if err != nil {
		return EnrollOutcome{}, fmt.Errorf("embedding: %w", err)
	}

	if err := s.store.Save(ctx, label, vec); err != nil {
		return EnrollOutcome{Status: EnrollStoreFailed, Label: label, Err: err}, nil
	}
	s.invalidateIndex()

	if s.archive != nil {
		// Best effort: losing the archived crop never fails an enrollment.
		if err := s.archive.Save(crop, label); err != nil {
			log.Printf("Warning: failed to archive face crop for %q: %v", label, err)
		}
	}

	return EnrollOutcome{Status: EnrollOK, Label: label}, nil
}

// Recognize identifies the face in img against a fresh snapshot of the
// store. Enrollments that land after the snapshot is taken are not visible
// to this request.
func (s *Service) Recognize(ctx context.Context, img image.Image) (RecognizeOutcome, error) {
	crop, ok, err := s.normalizeFace(ctx, img)
	if err != nil {
		return RecognizeOutcome{}, err
	}
	if !ok {
		return RecognizeOutcome{Status: RecognizeNoFace}, nil
	}

	vec, err := s.session.Embed(ctx, crop.Pixels)
	if err != nil {
		return RecognizeOutcome{}, fmt.Errorf("embedding: %w", err)
	}

	snapshot, err := s.store.LoadAll(ctx)
	if err != nil {
		return RecognizeOutcome{}, fmt.Errorf("loading enrollments: %w", err)
	}

	res := s.match(vec, snapshot)
	switch res.Outcome {
	case identify.Matched:
		return RecognizeOutcome{Status: RecognizeIdentified, Label: res.Label, Distance: res.Distance}, nil
	case identify.NoEnrollments:
		return RecognizeOutcome{Status: RecognizeNoEnrollments}, nil
	default:
		return RecognizeOutcome{Status: RecognizeUnknown, Distance: res.Distance}, nil
	}
}

// match resolves the query against the snapshot. Small populations use the
// exact linear scan; beyond the cutoff an HNSW index narrows the search and
// exact distances decide among its candidates, so outcomes agree with the
// scan. The cached index follows snapshot semantics: it may lag an
// enrollment that lands after it was built.
func (s *Service) match(query []float32, snapshot store.Snapshot) identify.Result {
	if len(snapshot) < indexCutoff {
		return identify.Identify(query, snapshot, s.threshold)
	}

	s.indexMu.Lock()
	if s.index == nil || s.indexSize != len(snapshot) {
		s.index = identify.BuildIndex(snapshot)
		s.indexSize = len(snapshot)
	}
	ix := s.index
	s.indexMu.Unlock()

	return ix.Identify(query, s.threshold)
}

// invalidateIndex drops the cached index so the next large-population
// recognition rebuilds it from a fresh snapshot.
func (s *Service) invalidateIndex() {
	s.indexMu.Lock()
	s.index = nil
	s.indexSize = 0
	s.indexMu.Unlock()
}

// Labels returns the enrolled labels in lexicographic order.
func (s *Service) Labels(ctx context.Context) ([]string, error) {
	snapshot, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading enrollments: %w", err)
	}
	labels := make([]string, 0, len(snapshot))
	for label := range snapshot {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}
