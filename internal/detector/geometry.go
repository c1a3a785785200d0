package detector

// Region is an axis-aligned square face candidate in source-image pixel
// space. X and Y are the top-left corner; candidate windows are always
// square, so a single Size covers both dimensions.
type Region struct {
	X, Y      int
	Size      int
	Score     float32 // raw classifier confidence
	Neighbors int     // overlapping raw candidate windows merged into this region
}

// IoU calculates Intersection over Union between two square regions.
func IoU(a, b Region) float64 {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Size, b.X+b.Size)
	y2 := min(a.Y+a.Size, b.Y+b.Size)

	if x2 <= x1 || y2 <= y1 {
		return 0 // No intersection
	}

	intersection := float64((x2 - x1) * (y2 - y1))
	union := float64(a.Size*a.Size) + float64(b.Size*b.Size) - intersection

	if union <= 0 {
		return 0
	}

	return intersection / union
}
