// Package sorter orchestrates the sorting pipeline: image discovery, face
// detection, person clustering and duplicate grouping.
package sorter

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/martinhruz/image-sorter/internal/cluster"
	"github.com/martinhruz/image-sorter/internal/constants"
	"github.com/martinhruz/image-sorter/internal/detector"
	"github.com/martinhruz/image-sorter/internal/fingerprint"
	"github.com/martinhruz/image-sorter/internal/location"
	"github.com/martinhruz/image-sorter/internal/organize"
)

// FaceDetector is the subset of the detector the sorter needs.
type FaceDetector interface {
	Detect(path string) bool
	Faces() []detector.Face
}

// Progress describes the state of a running scan for progress callbacks.
type Progress struct {
	Phase   string // "detecting", "clustering", "duplicates"
	Current int
	Total   int
	Path    string
}

// Options control a single scan.
type Options struct {
	Recursive  bool
	Clusters   int   // person groups to form, 0 uses the default
	Seed       int64 // clustering seed, 0 means time-based
	OnProgress func(Progress)
}

// Result is everything a scan produced.
type Result struct {
	ScanID     string              `json:"scan_id"`
	Directory  string              `json:"directory"`
	ImageCount int                 `json:"image_count"`
	FaceImages []string            `json:"face_images"`
	People     map[int][]string    `json:"people"`
	Duplicates [][]string          `json:"duplicates,omitempty"`
	Locations  map[string][]string `json:"locations,omitempty"`
}

type Sorter struct {
	detector   FaceDetector
	duplicates *fingerprint.DuplicateFinder
	locate     func(path string) (string, bool)
}

// New creates a sorter. The duplicate finder may be nil to skip duplicate
// grouping.
func New(det FaceDetector, dup *fingerprint.DuplicateFinder) *Sorter {
	return &Sorter{
		detector:   det,
		duplicates: dup,
		locate:     location.Extract,
	}
}

// Scan processes every image under dir sequentially: each file goes through
// face detection (accumulating crops inside the detector), duplicate hashing
// and GPS extraction, then the accumulated faces are clustered into person
// groups.
//
// Per-image failures degrade to "no face" / "no hash" and are logged by the
// components; only the directory listing itself can fail the scan.
func (s *Sorter) Scan(dir string, opts Options) (*Result, error) {
	files, err := organize.ImageFiles(dir, opts.Recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	result := &Result{
		ScanID:     uuid.NewString(),
		Directory:  dir,
		ImageCount: len(files),
		People:     map[int][]string{},
	}

	for i, f := range files {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Phase: "detecting", Current: i + 1, Total: len(files), Path: f})
		}
		if s.detector.Detect(f) {
			result.FaceImages = append(result.FaceImages, f)
		}
		if s.duplicates != nil {
			s.duplicates.Add(f)
		}
		if name, ok := s.locate(f); ok {
			if result.Locations == nil {
				result.Locations = map[string][]string{}
			}
			result.Locations[name] = append(result.Locations[name], f)
		}
	}

	if faces := s.detector.Faces(); len(faces) > 0 {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Phase: "clustering", Total: len(faces)})
		}
		k := opts.Clusters
		if k <= 0 {
			k = constants.DefaultClusterCount
		}
		vectors, paths := Features(faces)
		result.People = cluster.Groups(vectors, paths, k, opts.Seed)
	}

	if s.duplicates != nil {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Phase: "duplicates", Total: len(files)})
		}
		result.Duplicates = s.duplicates.FindDuplicates()
	}

	return result, nil
}

// Features splits accumulated faces into the index-aligned vector and path
// slices the clustering and similarity components consume.
func Features(faces []detector.Face) ([][]float64, []string) {
	vectors := make([][]float64, len(faces))
	paths := make([]string, len(faces))
	for i, f := range faces {
		vectors[i] = f.Pixels
		paths[i] = f.Path
	}
	return vectors, paths
}
