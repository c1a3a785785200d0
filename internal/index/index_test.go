package index

import (
	"math"
	"testing"
)

func TestBuild_Misaligned(t *testing.T) {
	if _, err := Build([][]float64{{1}}, nil); err == nil {
		t.Error("expected error for misaligned input")
	}
}

func TestSearch_Empty(t *testing.T) {
	idx, err := Build(nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if matches := idx.Search([]float64{1, 2, 3}, 5); matches != nil {
		t.Errorf("expected nil matches on empty index, got %v", matches)
	}
}

func TestSearch_NearestFirst(t *testing.T) {
	vectors := [][]float64{
		{0, 0},
		{10, 10},
		{0.5, 0},
	}
	paths := []string{"origin.jpg", "far.jpg", "near.jpg"}

	idx, err := Build(vectors, paths)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	matches := idx.Search([]float64{0, 0}, 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	if matches[0].Path != "origin.jpg" {
		t.Errorf("expected exact match first, got %q", matches[0].Path)
	}
	if matches[0].Distance != 0 {
		t.Errorf("expected zero distance for exact match, got %v", matches[0].Distance)
	}

	if matches[1].Path != "near.jpg" {
		t.Errorf("expected near.jpg second, got %q", matches[1].Path)
	}
	if matches[1].Distance <= 0 {
		t.Errorf("expected positive distance for near.jpg, got %v", matches[1].Distance)
	}
}

func TestSearch_StandardizedFeatures(t *testing.T) {
	// One feature spans 0..100, the other 0..1. After per-feature
	// standardization both offsets carry the same weight, so the two
	// candidates end up equidistant from the query. Raw Euclidean distance
	// would put b.jpg a hundred times closer.
	vectors := [][]float64{
		{0, 0},
		{100, 0},
		{0, 1},
	}
	paths := []string{"query.jpg", "a.jpg", "b.jpg"}

	idx, err := Build(vectors, paths)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	matches := idx.Search([]float64{0, 0}, 3)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Path != "query.jpg" || matches[0].Distance != 0 {
		t.Fatalf("expected exact match first with zero distance, got %v", matches[0])
	}
	if math.Abs(matches[1].Distance-matches[2].Distance) > 0.0001 {
		t.Errorf("expected equal standardized distances, got %v and %v",
			matches[1].Distance, matches[2].Distance)
	}
}

func TestSearch_SameImageMultipleFaces(t *testing.T) {
	vectors := [][]float64{{0, 0}, {0.1, 0}}
	paths := []string{"img.jpg", "img.jpg"}

	idx, err := Build(vectors, paths)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	matches := idx.Search([]float64{0, 0}, 2)
	if len(matches) != 2 {
		t.Fatalf("expected both faces returned, got %d", len(matches))
	}
	if matches[0].Path != "img.jpg" || matches[1].Path != "img.jpg" {
		t.Errorf("expected both matches from img.jpg, got %v", matches)
	}
}

func TestLen(t *testing.T) {
	idx, err := Build([][]float64{{1, 2}, {3, 4}}, []string{"a.jpg", "b.jpg"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("expected Len 2, got %d", idx.Len())
	}
}
