// Package fingerprint computes perceptual hashes for images and groups
// visually similar files into duplicate sets.
package fingerprint

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sort"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Hash combines a perceptual hash (DCT-based, robust to scaling and small
// edits) with a difference hash (gradient-based, cheap and orthogonal).
// Comparing both reduces false duplicate matches.
type Hash struct {
	PHash uint64
	DHash uint64
}

// String renders the combined hash as 32 hex characters.
func (h Hash) String() string {
	return fmt.Sprintf("%016x%016x", h.PHash, h.DHash)
}

// Distance is the combined Hamming distance between two hashes.
func Distance(a, b Hash) int {
	return hammingDistance(a.PHash, b.PHash) + hammingDistance(a.DHash, b.DHash)
}

// ComputeFile decodes the image at path and computes its combined hash.
func ComputeFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return Hash{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Hash{}, fmt.Errorf("failed to decode image: %w", err)
	}

	return Compute(img), nil
}

// Compute calculates the combined hash of a decoded image.
func Compute(img image.Image) Hash {
	return Hash{
		PHash: perceptionHash(img),
		DHash: differenceHash(img),
	}
}

func hammingDistance(a, b uint64) int {
	xor := a ^ b
	distance := 0
	for xor != 0 {
		distance++
		xor &= xor - 1 // Clear lowest set bit
	}
	return distance
}

// perceptionHash computes a 64-bit DCT-based perceptual hash.
func perceptionHash(img image.Image) uint64 {
	gray := grayThumbnail(img, 32, 32)
	coeffs := dct2d(gray, 32)

	// Low frequencies live in the top-left 8x8 block; the DC component
	// carries only average brightness and is skipped.
	low := make([]float64, 0, 64)
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			if u == 0 && v == 0 {
				continue
			}
			low = append(low, coeffs[v*32+u])
		}
	}
	low = append(low, coeffs[8]) // pad back to 64 bits

	median := medianOf(low)

	var hash uint64
	for i, c := range low {
		if c > median {
			hash |= 1 << (63 - i)
		}
	}
	return hash
}

// differenceHash computes a 64-bit horizontal gradient hash.
func differenceHash(img image.Image) uint64 {
	// 9 columns give 8 adjacent-pixel comparisons per row.
	gray := grayThumbnail(img, 9, 8)

	var hash uint64
	bit := 63
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if gray[y*9+x] > gray[y*9+x+1] {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// grayThumbnail scales the image to width x height and returns row-major
// luma values (ITU-R BT.601).
func grayThumbnail(img image.Image, width, height int) []float64 {
	resized := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Over, nil)

	gray := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			gray[y*width+x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return gray
}

// dct2d computes the two-dimensional DCT-II of a square row-major grid.
func dct2d(gray []float64, size int) []float64 {
	// Precompute cosine values for efficiency.
	cosTable := make([]float64, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			cosTable[i*size+j] = math.Cos(math.Pi * float64(i) * (2*float64(j) + 1) / (2 * float64(size)))
		}
	}

	out := make([]float64, size*size)
	for v := 0; v < size; v++ {
		for u := 0; u < size; u++ {
			var sum float64
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					sum += gray[y*size+x] * cosTable[u*size+x] * cosTable[v*size+y]
				}
			}
			out[v*size+u] = sum
		}
	}
	return out
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
