package cluster

import "log"

// Groups partitions face feature vectors into at most k person groups and
// maps each group label (0..k-1) to the ordered, duplicate-free list of
// source image paths that contributed at least one face to it.
//
// vectors and paths must be index-aligned: the i-th vector was extracted
// from the image at the i-th path. An image may appear under several labels
// when its faces land in different clusters; within one label it is listed
// once. Each call deep-copies the vectors before standardizing, so the
// caller's data is left untouched.
//
// Grouping is best-effort: with zero vectors, or on any internal failure,
// an empty mapping is returned and the failure is logged.
func Groups(vectors [][]float64, paths []string, k int, seed int64) map[int][]string {
	if len(vectors) == 0 {
		return map[int][]string{}
	}
	if len(vectors) != len(paths) {
		log.Printf("error: clustering faces: %d vectors but %d paths", len(vectors), len(paths))
		return map[int][]string{}
	}

	features := make([][]float64, len(vectors))
	for i, v := range vectors {
		features[i] = append([]float64(nil), v...)
	}
	Standardize(features)

	labels, _, err := run(features, Options{K: k, Seed: seed})
	if err != nil {
		log.Printf("error: clustering faces: %v", err)
		return map[int][]string{}
	}

	groups := make(map[int][]string)
	seen := make(map[int]map[string]struct{})
	for i, label := range labels {
		path := paths[i]
		if seen[label] == nil {
			seen[label] = make(map[string]struct{})
		}
		if _, dup := seen[label][path]; dup {
			continue
		}
		seen[label][path] = struct{}{}
		groups[label] = append(groups[label], path)
	}

	return groups
}
