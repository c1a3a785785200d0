package fingerprint

import (
	"log"

	"github.com/martinhruz/image-sorter/internal/constants"
)

// DuplicateFinder accumulates image hashes across a batch and groups paths
// whose hashes fall within a Hamming distance threshold.
//
// Like the face detector it is meant for single-writer sequential use.
type DuplicateFinder struct {
	threshold int
	paths     []string
	hashes    []Hash
}

// NewDuplicateFinder creates a finder with the given distance threshold;
// zero or negative falls back to the default.
func NewDuplicateFinder(threshold int) *DuplicateFinder {
	if threshold <= 0 {
		threshold = constants.DefaultDuplicateThreshold
	}
	return &DuplicateFinder{threshold: threshold}
}

// Add hashes the image at path and records it for later grouping.
// Unreadable images are logged and skipped, never fatal.
func (f *DuplicateFinder) Add(path string) {
	h, err := ComputeFile(path)
	if err != nil {
		log.Printf("warning: could not hash image %s: %v", path, err)
		return
	}
	f.paths = append(f.paths, path)
	f.hashes = append(f.hashes, h)
}

// FindDuplicates returns groups of two or more paths whose hashes lie within
// the threshold of the group's first member. Each path lands in one group.
func (f *DuplicateFinder) FindDuplicates() [][]string {
	var groups [][]string
	used := make([]bool, len(f.paths))

	for i := range f.paths {
		if used[i] {
			continue
		}
		group := []string{f.paths[i]}
		used[i] = true

		for j := i + 1; j < len(f.paths); j++ {
			if used[j] {
				continue
			}
			if Distance(f.hashes[i], f.hashes[j]) <= f.threshold {
				group = append(group, f.paths[j])
				used[j] = true
			}
		}

		if len(group) > 1 {
			groups = append(groups, group)
		}
	}

	return groups
}

// Reset discards all recorded hashes.
func (f *DuplicateFinder) Reset() {
	f.paths = nil
	f.hashes = nil
}
