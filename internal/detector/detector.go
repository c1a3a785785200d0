// Package detector locates human faces in images and accumulates normalized
// face crops for later clustering.
package detector

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	pigo "github.com/esimov/pigo/core"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/martinhruz/image-sorter/internal/constants"
)

// Config holds detection tuning values. It is read once at construction.
type Config struct {
	MinFaceSize  int     // smallest detection window in pixels (width = height)
	ScaleFactor  float64 // geometric step between detection scales, must be > 1.0
	MinNeighbors int     // overlapping raw candidate windows required per face

	// CascadePath names the trained pigo cascade model on disk.
	// Cascade carries the raw model bytes and takes precedence when set.
	CascadePath string
	Cascade     []byte
}

func (c *Config) applyDefaults() {
	if c.MinFaceSize <= 0 {
		c.MinFaceSize = constants.DefaultMinFaceSize
	}
	if c.ScaleFactor <= 1.0 {
		c.ScaleFactor = constants.DefaultScaleFactor
	}
	if c.MinNeighbors <= 0 {
		c.MinNeighbors = constants.DefaultMinNeighbors
	}
}

// Face is a normalized face crop paired with the image it came from.
// Pixels holds CropSize x CropSize grayscale intensities in row-major order
// and doubles as the feature vector for clustering.
type Face struct {
	Path   string
	Pixels []float64
}

// scanner runs the multi-scale cascade over a grayscale pixel grid.
// It exists as a seam so tests can exercise the accumulation logic
// without a trained model.
type scanner interface {
	scan(pixels []uint8, rows, cols, minSize int, scaleFactor float64) []Region
}

// Detector locates faces and owns the accumulated crops between Detect
// calls and the clustering step.
//
// A Detector is not safe for concurrent use: Detect mutates the
// accumulation slice and callers are expected to invoke it sequentially.
type Detector struct {
	cfg     Config
	scanner scanner
	faces   []Face
}

// New creates a Detector from the given configuration. The cascade model is
// unpacked eagerly so configuration problems surface here rather than during
// a batch run.
func New(cfg Config) (*Detector, error) {
	cfg.applyDefaults()

	data := cfg.Cascade
	if len(data) == 0 {
		if cfg.CascadePath == "" {
			return nil, errors.New("no cascade model configured")
		}
		var err error
		data, err = os.ReadFile(cfg.CascadePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read cascade model: %w", err)
		}
	}

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade model: %w", err)
	}

	return &Detector{cfg: cfg, scanner: &pigoScanner{classifier: classifier}}, nil
}

func newWithScanner(cfg Config, s scanner) *Detector {
	cfg.applyDefaults()
	return &Detector{cfg: cfg, scanner: s}
}

// Detect reports whether the image at path contains at least one face.
// Every accepted face is cropped, resized to the normalized dimension and
// appended to the accumulation state together with its source path.
//
// Detection is best-effort: decode failures and detector errors are logged
// and reported as false, never returned. Accumulation is additive - calling
// Detect twice on the same image appends its faces twice.
func (d *Detector) Detect(path string) (found bool) {
	// A failed scan must never take down the caller's batch loop.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("error: detecting faces in %s: %v", path, r)
			found = false
		}
	}()

	img, err := loadImage(path)
	if err != nil {
		log.Printf("warning: could not load image %s: %v", path, err)
		return false
	}

	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	for _, r := range d.scanner.scan(pixels, rows, cols, d.cfg.MinFaceSize, d.cfg.ScaleFactor) {
		if r.Neighbors < d.cfg.MinNeighbors {
			continue
		}
		crop := cropFace(pixels, rows, cols, r)
		if crop == nil {
			continue
		}
		d.faces = append(d.faces, Face{Path: path, Pixels: crop})
		found = true
	}

	return found
}

// Locate returns the accepted face regions of a single image without
// touching the accumulation state. Unlike Detect it propagates errors,
// which makes it suitable for one-shot inspection commands.
func (d *Detector) Locate(path string) ([]Region, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	var accepted []Region
	for _, r := range d.scanner.scan(pixels, rows, cols, d.cfg.MinFaceSize, d.cfg.ScaleFactor) {
		if r.Neighbors >= d.cfg.MinNeighbors {
			accepted = append(accepted, r)
		}
	}
	return accepted, nil
}

// Faces hands the accumulated crops to the clustering step.
func (d *Detector) Faces() []Face {
	return d.faces
}

// Reset discards all accumulated crops.
func (d *Detector) Reset() {
	d.faces = nil
}

// cropFace extracts a clamped region from the grayscale pixel grid and
// resizes it to the normalized crop dimension. Returns nil when the region
// lies entirely outside the image.
func cropFace(pixels []uint8, rows, cols int, r Region) []float64 {
	x1, y1 := max(r.X, 0), max(r.Y, 0)
	x2, y2 := min(r.X+r.Size, cols), min(r.Y+r.Size, rows)
	if x2 <= x1 || y2 <= y1 {
		return nil
	}

	src := &image.Gray{Pix: pixels, Stride: cols, Rect: image.Rect(0, 0, cols, rows)}
	region := src.SubImage(image.Rect(x1, y1, x2, y2))

	dst := image.NewGray(image.Rect(0, 0, constants.CropSize, constants.CropSize))
	draw.BiLinear.Scale(dst, dst.Bounds(), region, region.Bounds(), draw.Over, nil)

	out := make([]float64, len(dst.Pix))
	for i, p := range dst.Pix {
		out[i] = float64(p)
	}
	return out
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// pigoScanner runs the pigo pixel-intensity-comparison cascade.
type pigoScanner struct {
	classifier *pigo.Pigo
}

func (s *pigoScanner) scan(pixels []uint8, rows, cols, minSize int, scaleFactor float64) []Region {
	maxSize := min(rows, cols)
	if minSize >= maxSize {
		return nil // image smaller than the detection window
	}

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     maxSize,
		ShiftFactor: constants.ShiftFactor,
		ScaleFactor: scaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	raw := s.classifier.RunCascade(params, 0.0)
	merged := s.classifier.ClusterDetections(raw, constants.DetectionIoU)

	regions := make([]Region, 0, len(merged))
	for _, det := range merged {
		r := Region{
			X:     det.Col - det.Scale/2,
			Y:     det.Row - det.Scale/2,
			Size:  det.Scale,
			Score: det.Q,
		}
		// Viola-Jones neighbor semantics: a merged detection is only as
		// trustworthy as the number of raw windows that landed on it.
		for _, cand := range raw {
			c := Region{X: cand.Col - cand.Scale/2, Y: cand.Row - cand.Scale/2, Size: cand.Scale}
			if IoU(r, c) >= constants.DetectionIoU {
				r.Neighbors++
			}
		}
		regions = append(regions, r)
	}
	return regions
}
