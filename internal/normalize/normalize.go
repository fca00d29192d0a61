// Package normalize turns a raw image plus detector output into a single
// model-ready face crop: fixed size, standardized pixel values.
package normalize

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/kozaktomas/faceid/internal/inference"
)

// epsilon guards the standardization against division by zero on a
// constant-color crop.
const epsilon = 1e-6

// FaceCrop is a normalized face region. Pixels holds standardized RGB values
// in row-major order (size*size*3 values, zero mean and unit variance across
// the crop). Image keeps the resized crop for optional archival.
type FaceCrop struct {
	Size   int
	Pixels []float32
	Image  *image.RGBA
}

// Normalize selects one face from the detector output and produces a
// size x size standardized crop. The second return value is false when the
// image contains no usable face: no boxes, or the chosen box has no area
// left after clamping to image bounds.
//
// Selection rule: the largest-area box wins. One upload carries one subject,
// and area is stable across runs where detector ordering may not be. Exact
// area ties go to the box with the smaller (y1, x1) corner.
func Normalize(img image.Image, boxes []inference.Box, size int) (*FaceCrop, bool) {
	if len(boxes) == 0 {
		return nil, false
	}

	bounds := img.Bounds()
	box := selectBox(boxes).Clamp(bounds.Dx(), bounds.Dy())
	if box.Area() == 0 {
		return nil, false
	}

	crop := resizeRegion(img, box, size)
	return &FaceCrop{
		Size:   size,
		Pixels: standardize(crop),
		Image:  crop,
	}, true
}

// selectBox returns the largest-area box with a deterministic tie-break.
func selectBox(boxes []inference.Box) inference.Box {
	best := boxes[0]
	for _, b := range boxes[1:] {
		switch {
		case b.Area() > best.Area():
			best = b
		case b.Area() == best.Area():
			if b.Y1 < best.Y1 || (b.Y1 == best.Y1 && b.X1 < best.X1) {
				best = b
			}
		}
	}
	return best
}

// resizeRegion scales the box region of src to a size x size RGBA image
// using bilinear interpolation.
func resizeRegion(src image.Image, box inference.Box, size int) *image.RGBA {
	origin := src.Bounds().Min
	region := image.Rect(
		origin.X+int(box.X1),
		origin.Y+int(box.Y1),
		origin.X+int(math.Ceil(box.X2)),
		origin.Y+int(math.Ceil(box.Y2)),
	)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, region, draw.Src, nil)
	return dst
}

// standardize flattens the crop to RGB floats with zero mean and unit
// variance, matching the embedding network's training distribution.
func standardize(img *image.RGBA) []float32 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	values := make([]float64, 0, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			values = append(values, float64(r>>8), float64(g>>8), float64(b>>8))
		}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(values)))
	std = math.Max(std, epsilon)

	pixels := make([]float32, len(values))
	for i, v := range values {
		pixels[i] = float32((v - mean) / std)
	}
	return pixels
}
