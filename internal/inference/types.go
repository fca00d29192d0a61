package inference

// Box is a face bounding box in source-image pixel coordinates.
// Coordinates are [x1, y1, x2, y2] corners; Score is the detector confidence.
type Box struct {
	X1, Y1 float64
	X2, Y2 float64
	Score  float64
}

// Area returns the box area in square pixels. Degenerate boxes have area 0.
func (b Box) Area() float64 {
	w := b.X2 - b.X1
	h := b.Y2 - b.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Clamp restricts the box to the rectangle [0,0,width,height].
func (b Box) Clamp(width, height int) Box {
	c := b
	c.X1 = max(0, min(c.X1, float64(width)))
	c.Y1 = max(0, min(c.Y1, float64(height)))
	c.X2 = max(0, min(c.X2, float64(width)))
	c.Y2 = max(0, min(c.Y2, float64(height)))
	return c
}
