package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/martinhruz/image-sorter/internal/constants"
)

//go:embed presets.yaml
var presetsYAML []byte

type Config struct {
	Detection  DetectionConfig
	Cluster    ClusterConfig
	Duplicates DuplicateConfig
	Presets    PresetsConfig
}

type DetectionConfig struct {
	CascadePath  string  // path to the trained pigo cascade model
	MinFaceSize  int     // smallest detection window in pixels
	ScaleFactor  float64 // geometric step between detection scales (>1.0)
	MinNeighbors int     // overlapping candidate windows required per face
}

type ClusterConfig struct {
	Count int   // number of person groups
	Seed  int64 // k-means initialization seed, 0 means time-based
}

type DuplicateConfig struct {
	Threshold int // max combined Hamming distance for duplicates
}

type PresetsConfig struct {
	Presets map[string]DetectionPreset `yaml:"presets"`
}

// DetectionPreset bundles detection tuning values under a named profile.
type DetectionPreset struct {
	MinFaceSize        int     `yaml:"min_face_size"`
	ScaleFactor        float64 `yaml:"scale_factor"`
	MinNeighbors       int     `yaml:"min_neighbors"`
	DuplicateThreshold int     `yaml:"duplicate_threshold"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float greater
// than one. Returns the default value if unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 1.0 {
		return f
	}
	return defaultVal
}

// envInt64 reads an environment variable and parses it as an int64.
// Returns the default value if unset, empty, or invalid.
func envInt64(key string, defaultVal int64) int64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return defaultVal
}

func Load() *Config {
	var presets PresetsConfig
	if err := yaml.Unmarshal(presetsYAML, &presets); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded presets.yaml: " + err.Error())
	}

	return &Config{
		Detection: DetectionConfig{
			CascadePath:  envString("IMAGE_SORTER_CASCADE", "cascade/facefinder"),
			MinFaceSize:  envInt("IMAGE_SORTER_MIN_FACE_SIZE", constants.DefaultMinFaceSize),
			ScaleFactor:  envFloat("IMAGE_SORTER_SCALE_FACTOR", constants.DefaultScaleFactor),
			MinNeighbors: envInt("IMAGE_SORTER_MIN_NEIGHBORS", constants.DefaultMinNeighbors),
		},
		Cluster: ClusterConfig{
			Count: envInt("IMAGE_SORTER_CLUSTERS", constants.DefaultClusterCount),
			Seed:  envInt64("IMAGE_SORTER_SEED", 0),
		},
		Duplicates: DuplicateConfig{
			Threshold: envInt("IMAGE_SORTER_DUPLICATE_THRESHOLD", constants.DefaultDuplicateThreshold),
		},
		Presets: presets,
	}
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Preset looks up a named detection preset from the embedded presets file.
func (c *Config) Preset(name string) (DetectionPreset, bool) {
	p, ok := c.Presets.Presets[name]
	return p, ok
}

// ApplyPreset overwrites detection and duplicate tuning with preset values.
func (c *Config) ApplyPreset(p DetectionPreset) {
	c.Detection.MinFaceSize = p.MinFaceSize
	c.Detection.ScaleFactor = p.ScaleFactor
	c.Detection.MinNeighbors = p.MinNeighbors
	c.Duplicates.Threshold = p.DuplicateThreshold
}
