package recognition

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/kozaktomas/faceid/internal/normalize"
	"github.com/kozaktomas/faceid/internal/store"
)

// CropArchive saves normalized face crops as JPEG files, one per label,
// next to the embedding store. Purely for operator inspection; nothing in
// the recognition path reads these back.
type CropArchive struct {
	dir string
}

// NewCropArchive creates the archive directory if needed.
func NewCropArchive(dir string) (*CropArchive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &CropArchive{dir: dir}, nil
}

// Save writes the crop image as <label>.jpg, overwriting earlier crops for
// the same label just like re-enrollment overwrites the embedding. Labels
// with path segments are refused; the archive owns its directory.
func (a *CropArchive) Save(crop *normalize.FaceCrop, label string) error {
	if err := store.ValidateLabel(label); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(a.dir, label+".jpg"))
	if err != nil {
		return fmt.Errorf("failed to create crop file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, crop.Image, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("failed to encode crop: %w", err)
	}
	return nil
}
