// Package index provides approximate nearest-neighbor lookup over face
// feature vectors, used to find images holding faces similar to a reference
// face. Vectors are standardized per feature before indexing so no single
// high-variance pixel dominates the distance. This is similarity search on
// pixel features, not identity matching.
package index

import (
	"errors"
	"math"

	"github.com/coder/hnsw"

	"github.com/martinhruz/image-sorter/internal/cluster"
	"github.com/martinhruz/image-sorter/internal/constants"
)

// Match is a single similarity hit.
type Match struct {
	Path     string  `json:"path"`
	Distance float64 `json:"distance"` // Euclidean in standardized feature space, lower = more similar
}

// FaceIndex wraps an HNSW graph over accumulated face vectors. The
// per-feature means and deviations of the build set are kept so queries are
// standardized the same way as the indexed vectors.
type FaceIndex struct {
	graph  *hnsw.Graph[int]
	paths  []string
	means  []float64
	sigmas []float64
}

// Build constructs the index from index-aligned vectors and source paths.
func Build(vectors [][]float64, paths []string) (*FaceIndex, error) {
	if len(vectors) != len(paths) {
		return nil, errors.New("vectors and paths must be index-aligned")
	}

	g := hnsw.NewGraph[int]()
	g.M = constants.HNSWMaxNeighbors
	g.Ml = 1.0 / float64(constants.HNSWMaxNeighbors) // Standard HNSW formula
	g.Distance = hnsw.EuclideanDistance

	x := &FaceIndex{graph: g, paths: paths}
	x.means, x.sigmas = cluster.Stats(vectors)

	for i, v := range vectors {
		g.Add(hnsw.MakeNode(i, x.standardize(v)))
	}
	return x, nil
}

// Search returns up to k nearest faces to the query vector, closest first.
// Multiple faces from one image can produce multiple matches for that image.
func (x *FaceIndex) Search(vector []float64, k int) []Match {
	if len(x.paths) == 0 || k <= 0 {
		return nil
	}

	query := x.standardize(vector)
	neighbors := x.graph.Search(query, k)

	matches := make([]Match, 0, len(neighbors))
	for _, n := range neighbors {
		matches = append(matches, Match{
			Path:     x.paths[n.Key],
			Distance: euclidean(query, n.Value),
		})
	}
	return matches
}

// Len returns the number of indexed faces.
func (x *FaceIndex) Len() int {
	return len(x.paths)
}

// standardize applies the build set's per-feature stats and converts to the
// float32 representation the graph stores.
func (x *FaceIndex) standardize(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		if i < len(x.means) {
			f = (f - x.means[i]) / x.sigmas[i]
		}
		out[i] = float32(f)
	}
	return out
}

func euclidean(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
