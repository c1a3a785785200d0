package config

import (
	"testing"

	"github.com/martinhruz/image-sorter/internal/constants"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Detection.MinFaceSize != constants.DefaultMinFaceSize {
		t.Errorf("expected min face size %d, got %d", constants.DefaultMinFaceSize, cfg.Detection.MinFaceSize)
	}
	if cfg.Detection.ScaleFactor != constants.DefaultScaleFactor {
		t.Errorf("expected scale factor %v, got %v", constants.DefaultScaleFactor, cfg.Detection.ScaleFactor)
	}
	if cfg.Detection.MinNeighbors != constants.DefaultMinNeighbors {
		t.Errorf("expected min neighbors %d, got %d", constants.DefaultMinNeighbors, cfg.Detection.MinNeighbors)
	}
	if cfg.Cluster.Count != constants.DefaultClusterCount {
		t.Errorf("expected cluster count %d, got %d", constants.DefaultClusterCount, cfg.Cluster.Count)
	}
	if cfg.Detection.CascadePath == "" {
		t.Error("expected a default cascade path")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMAGE_SORTER_MIN_FACE_SIZE", "50")
	t.Setenv("IMAGE_SORTER_SCALE_FACTOR", "1.3")
	t.Setenv("IMAGE_SORTER_CLUSTERS", "8")
	t.Setenv("IMAGE_SORTER_CASCADE", "/models/facefinder")
	t.Setenv("IMAGE_SORTER_SEED", "-42")

	cfg := Load()

	if cfg.Detection.MinFaceSize != 50 {
		t.Errorf("expected min face size 50, got %d", cfg.Detection.MinFaceSize)
	}
	if cfg.Detection.ScaleFactor != 1.3 {
		t.Errorf("expected scale factor 1.3, got %v", cfg.Detection.ScaleFactor)
	}
	if cfg.Cluster.Count != 8 {
		t.Errorf("expected cluster count 8, got %d", cfg.Cluster.Count)
	}
	if cfg.Detection.CascadePath != "/models/facefinder" {
		t.Errorf("expected cascade path override, got %q", cfg.Detection.CascadePath)
	}
	if cfg.Cluster.Seed != -42 {
		t.Errorf("expected seed -42, got %d", cfg.Cluster.Seed)
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("IMAGE_SORTER_MIN_FACE_SIZE", "not a number")
	t.Setenv("IMAGE_SORTER_SCALE_FACTOR", "0.5") // must be > 1.0

	cfg := Load()

	if cfg.Detection.MinFaceSize != constants.DefaultMinFaceSize {
		t.Errorf("expected default min face size, got %d", cfg.Detection.MinFaceSize)
	}
	if cfg.Detection.ScaleFactor != constants.DefaultScaleFactor {
		t.Errorf("expected default scale factor, got %v", cfg.Detection.ScaleFactor)
	}
}

func TestPreset_Lookup(t *testing.T) {
	cfg := Load()

	for _, name := range []string{"default", "strict", "relaxed"} {
		p, ok := cfg.Preset(name)
		if !ok {
			t.Fatalf("expected preset %q to exist", name)
		}
		if p.MinFaceSize <= 0 || p.ScaleFactor <= 1.0 || p.MinNeighbors <= 0 {
			t.Errorf("preset %q has invalid values: %+v", name, p)
		}
	}

	if _, ok := cfg.Preset("bogus"); ok {
		t.Error("expected lookup failure for unknown preset")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := Load()
	p, ok := cfg.Preset("strict")
	if !ok {
		t.Fatal("strict preset missing")
	}

	cfg.ApplyPreset(p)

	if cfg.Detection.MinFaceSize != p.MinFaceSize {
		t.Errorf("expected min face size %d, got %d", p.MinFaceSize, cfg.Detection.MinFaceSize)
	}
	if cfg.Detection.MinNeighbors != p.MinNeighbors {
		t.Errorf("expected min neighbors %d, got %d", p.MinNeighbors, cfg.Detection.MinNeighbors)
	}
	if cfg.Duplicates.Threshold != p.DuplicateThreshold {
		t.Errorf("expected duplicate threshold %d, got %d", p.DuplicateThreshold, cfg.Duplicates.Threshold)
	}
}
