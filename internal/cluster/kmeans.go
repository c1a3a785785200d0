// Package cluster partitions face feature vectors into approximate person
// groups using k-means. The features are raw flattened pixel intensities of
// normalized face crops - a deliberately weak similarity signal that is
// sensitive to pose and lighting. This is unsupervised grouping, not face
// recognition.
package cluster

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/martinhruz/image-sorter/internal/constants"
)

// Options tune a k-means run. Zero values fall back to defaults.
type Options struct {
	K             int     // number of clusters
	MaxIterations int     // cap on Lloyd's iterations per restart
	Epsilon       float64 // center movement below which a run is converged
	Restarts      int     // random initializations, lowest inertia wins
	Seed          int64   // rng seed, 0 means time-based
}

func (o *Options) applyDefaults() {
	if o.MaxIterations <= 0 {
		o.MaxIterations = constants.KMeansMaxIterations
	}
	if o.Epsilon <= 0 {
		o.Epsilon = constants.KMeansEpsilon
	}
	if o.Restarts <= 0 {
		o.Restarts = constants.KMeansRestarts
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// Stats returns the per-feature mean and standard deviation across all
// vectors. A zero deviation is reported as one so constant features stay
// centered but unscaled when the stats are applied.
func Stats(vectors [][]float64) (means, sigmas []float64) {
	if len(vectors) == 0 {
		return nil, nil
	}

	dim := len(vectors[0])
	means = make([]float64, dim)
	for _, v := range vectors {
		for j, x := range v {
			means[j] += x
		}
	}
	n := float64(len(vectors))
	for j := range means {
		means[j] /= n
	}

	sigmas = make([]float64, dim)
	for _, v := range vectors {
		for j, x := range v {
			d := x - means[j]
			sigmas[j] += d * d
		}
	}
	for j := range sigmas {
		sigmas[j] = math.Sqrt(sigmas[j] / n)
		if sigmas[j] == 0 {
			sigmas[j] = 1
		}
	}
	return means, sigmas
}

// Standardize centers each feature on its mean and scales it by its standard
// deviation across all vectors, in place.
func Standardize(vectors [][]float64) {
	means, sigmas := Stats(vectors)
	for _, v := range vectors {
		for j := range v {
			v[j] = (v[j] - means[j]) / sigmas[j]
		}
	}
}

// run partitions vectors into at most opts.K groups and returns the label of
// each vector together with the inertia of the winning restart. When fewer
// vectors than clusters exist the center count degrades to the vector count.
func run(vectors [][]float64, opts Options) ([]int, float64, error) {
	if len(vectors) == 0 {
		return nil, 0, errors.New("no vectors to cluster")
	}
	if opts.K <= 0 {
		return nil, 0, errors.New("cluster count must be positive")
	}
	opts.applyDefaults()

	k := min(opts.K, len(vectors))
	rng := rand.New(rand.NewSource(opts.Seed))

	var bestLabels []int
	bestInertia := math.Inf(1)

	for r := 0; r < opts.Restarts; r++ {
		labels, inertia := lloyd(vectors, k, opts.MaxIterations, opts.Epsilon, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}

	return bestLabels, bestInertia, nil
}

// lloyd performs a single k-means run from a random initialization.
func lloyd(vectors [][]float64, k, maxIter int, eps float64, rng *rand.Rand) ([]int, float64) {
	dim := len(vectors[0])

	// Forgy initialization: k distinct vectors become the starting centers.
	centers := make([][]float64, k)
	for i, idx := range rng.Perm(len(vectors))[:k] {
		centers[i] = append([]float64(nil), vectors[idx]...)
	}

	labels := make([]int, len(vectors))

	for iter := 0; iter < maxIter; iter++ {
		assign(vectors, centers, labels)

		// Recompute centers as the mean of their assigned vectors.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, v := range vectors {
			c := labels[i]
			counts[c]++
			for j, x := range v {
				sums[c][j] += x
			}
		}

		shift := 0.0
		for c := range centers {
			if counts[c] == 0 {
				// Re-seed an empty cluster from the point farthest from its
				// current center to avoid a degenerate solution.
				far := farthest(vectors, centers, labels)
				copy(centers[c], vectors[far])
				labels[far] = c
				shift = math.Inf(1)
				continue
			}
			moved := 0.0
			for j := range centers[c] {
				mean := sums[c][j] / float64(counts[c])
				d := centers[c][j] - mean
				moved += d * d
				centers[c][j] = mean
			}
			shift = math.Max(shift, math.Sqrt(moved))
		}

		if shift < eps {
			break
		}
	}

	inertia := assign(vectors, centers, labels)
	return labels, inertia
}

// assign labels each vector with its nearest center and returns the total
// inertia (sum of squared distances to assigned centers).
func assign(vectors, centers [][]float64, labels []int) float64 {
	total := 0.0
	for i, v := range vectors {
		best := 0
		bestDist := squaredDistance(v, centers[0])
		for c := 1; c < len(centers); c++ {
			if d := squaredDistance(v, centers[c]); d < bestDist {
				bestDist = d
				best = c
			}
		}
		labels[i] = best
		total += bestDist
	}
	return total
}

// farthest returns the index of the vector with the largest distance to its
// assigned center.
func farthest(vectors, centers [][]float64, labels []int) int {
	idx, worst := 0, -1.0
	for i, v := range vectors {
		if d := squaredDistance(v, centers[labels[i]]); d > worst {
			worst = d
			idx = i
		}
	}
	return idx
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
