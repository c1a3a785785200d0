// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Face detection constants
const (
	// CropSize is the side length of a normalized face crop in pixels.
	// Every detected face is resized to CropSize x CropSize before clustering.
	CropSize = 100

	// DetectionIoU is the minimum Intersection over Union used both to merge
	// overlapping candidate windows and to count a raw window as a neighbor
	// of a merged detection
	DetectionIoU = 0.2

	// ShiftFactor determines how far the detection window slides between
	// evaluations, as a fraction of the window size
	ShiftFactor = 0.1

	// DefaultMinFaceSize is the smallest detection window in pixels
	DefaultMinFaceSize = 30

	// DefaultScaleFactor is the geometric step between detection scales
	DefaultScaleFactor = 1.1

	// DefaultMinNeighbors is the number of overlapping raw candidate windows
	// required for a merged detection to be accepted
	DefaultMinNeighbors = 5
)

// Face clustering constants
const (
	// DefaultClusterCount is the default number of person groups
	DefaultClusterCount = 5

	// KMeansMaxIterations caps a single Lloyd's run
	KMeansMaxIterations = 100

	// KMeansEpsilon is the center movement below which a run is converged.
	// Features are standardized, so this is in units of standard deviations.
	KMeansEpsilon = 0.2

	// KMeansRestarts is the number of random initializations; the run with
	// the lowest inertia wins
	KMeansRestarts = 10
)

// Duplicate detection constants
const (
	// DefaultDuplicateThreshold is the maximum combined Hamming distance
	// (pHash + dHash) for two images to be considered duplicates
	DefaultDuplicateThreshold = 10
)

// Similarity index constants
const (
	// HNSWMaxNeighbors (M) is the maximum number of neighbors per node.
	// Higher values improve recall but increase memory and build time.
	HNSWMaxNeighbors = 16

	// DefaultMatchLimit is the default number of nearest faces returned by
	// a similarity lookup
	DefaultMatchLimit = 10
)
