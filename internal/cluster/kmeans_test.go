package cluster

import (
	"math"
	"testing"
)

func TestStandardize(t *testing.T) {
	vectors := [][]float64{
		{1, 10, 5},
		{3, 20, 5},
	}

	Standardize(vectors)

	// First feature: mean 2, std 1 -> values -1 and 1.
	if vectors[0][0] != -1 || vectors[1][0] != 1 {
		t.Errorf("expected first feature standardized to -1/1, got %v/%v", vectors[0][0], vectors[1][0])
	}

	// Second feature: mean 15, std 5 -> values -1 and 1.
	if vectors[0][1] != -1 || vectors[1][1] != 1 {
		t.Errorf("expected second feature standardized to -1/1, got %v/%v", vectors[0][1], vectors[1][1])
	}

	// Third feature is constant: zero std is treated as one, so the values
	// are centered but unscaled.
	if vectors[0][2] != 0 || vectors[1][2] != 0 {
		t.Errorf("expected constant feature centered to 0, got %v/%v", vectors[0][2], vectors[1][2])
	}
}

func TestStandardize_Empty(t *testing.T) {
	Standardize(nil)
	Standardize([][]float64{})
}

func TestStats(t *testing.T) {
	means, sigmas := Stats([][]float64{
		{1, 10, 5},
		{3, 20, 5},
	})

	want := []float64{2, 15, 5}
	for j, m := range means {
		if m != want[j] {
			t.Errorf("expected mean %v for feature %d, got %v", want[j], j, m)
		}
	}
	if sigmas[0] != 1 || sigmas[1] != 5 {
		t.Errorf("expected sigmas 1 and 5, got %v and %v", sigmas[0], sigmas[1])
	}
	if sigmas[2] != 1 {
		t.Errorf("expected zero deviation reported as 1, got %v", sigmas[2])
	}

	if m, s := Stats(nil); m != nil || s != nil {
		t.Errorf("expected nil stats for no vectors, got %v/%v", m, s)
	}
}

func TestRun_WellSeparatedClusters(t *testing.T) {
	// Two tight groups far apart; any sane partition splits them cleanly.
	vectors := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{100, 100}, {100.1, 100}, {100, 100.1},
	}

	labels, inertia, err := run(vectors, Options{K: 2, Seed: 42})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("expected first group in one cluster, got %v", labels[:3])
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("expected second group in one cluster, got %v", labels[3:])
	}
	if labels[0] == labels[3] {
		t.Error("expected the two groups in different clusters")
	}

	// Inertia of the clean split is the within-group spread only.
	if inertia > 1.0 {
		t.Errorf("expected small inertia for clean split, got %v", inertia)
	}
}

func TestRun_DeterministicWithSeed(t *testing.T) {
	vectors := [][]float64{
		{0, 0}, {1, 1}, {50, 50}, {51, 51}, {100, 0}, {101, 1},
	}

	first, _, err := run(vectors, Options{K: 3, Seed: 7})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for loopIdx := 0; loopIdx < 5; loopIdx++ {
		labels, _, err := run(vectors, Options{K: 3, Seed: 7})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		for i := range labels {
			if labels[i] != first[i] {
				t.Fatalf("expected identical labels with fixed seed, got %v vs %v", labels, first)
			}
		}
	}
}

func TestRun_FewerVectorsThanClusters(t *testing.T) {
	vectors := [][]float64{{0, 0}, {10, 10}}

	labels, _, err := run(vectors, Options{K: 5, Seed: 1})
	if err != nil {
		t.Fatalf("run should degrade gracefully, got: %v", err)
	}

	if len(labels) != 2 {
		t.Fatalf("expected a label per vector, got %d", len(labels))
	}
	for _, l := range labels {
		if l < 0 || l >= 2 {
			t.Errorf("label %d outside degraded center count", l)
		}
	}
}

func TestRun_InvalidInput(t *testing.T) {
	if _, _, err := run(nil, Options{K: 2}); err == nil {
		t.Error("expected error for empty input")
	}
	if _, _, err := run([][]float64{{1}}, Options{K: 0}); err == nil {
		t.Error("expected error for non-positive cluster count")
	}
}

func TestRun_SingleCluster(t *testing.T) {
	vectors := [][]float64{{0, 0}, {2, 2}, {4, 4}}

	labels, inertia, err := run(vectors, Options{K: 1, Seed: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, l := range labels {
		if l != 0 {
			t.Errorf("expected all labels 0 for k=1, got %v", labels)
		}
	}

	// Center is the mean (2,2); inertia = 8 + 0 + 8.
	if math.Abs(inertia-16) > 0.0001 {
		t.Errorf("expected inertia 16, got %v", inertia)
	}
}
