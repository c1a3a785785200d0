package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/martinhruz/image-sorter/internal/config"
	"github.com/martinhruz/image-sorter/internal/constants"
	"github.com/martinhruz/image-sorter/internal/detector"
	"github.com/martinhruz/image-sorter/internal/fingerprint"
	"github.com/martinhruz/image-sorter/internal/index"
	"github.com/martinhruz/image-sorter/internal/organize"
	"github.com/martinhruz/image-sorter/internal/sorter"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan a directory and group photos by person",
	Long: `Scan a directory of photos, detect faces and group the photos by
the people appearing in them. Near-duplicate shots are grouped as well.

Examples:
  # Scan a directory and print the report
  image-sorter scan ~/Pictures/holiday

  # Scan recursively and sort into an output directory
  image-sorter scan ~/Pictures/holiday --recursive --output ~/Pictures/sorted

  # Give the person groups real names (by cluster label order)
  image-sorter scan ~/Pictures/holiday --names "Jiří,Alice" --output ./sorted

  # Find photos holding a face similar to the one in a reference image
  image-sorter scan ~/Pictures/holiday --match ./reference.jpg

  # Machine-readable output
  image-sorter scan ~/Pictures/holiday --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("recursive", false, "Descend into subdirectories")
	scanCmd.Flags().Int("clusters", 0, "Number of person groups to form (0 = configured default)")
	scanCmd.Flags().Int64("seed", 0, "Clustering seed for reproducible groups (0 = time-based)")
	scanCmd.Flags().StringSlice("names", nil, "Person names assigned to groups in label order")
	scanCmd.Flags().String("output", "", "Write an organized directory tree under this path")
	scanCmd.Flags().Bool("move", false, "Move originals into the output tree instead of copying")
	scanCmd.Flags().Bool("json", false, "Print the report as JSON")
	scanCmd.Flags().String("match", "", "Reference image: report photos with similar faces")
	scanCmd.Flags().Int("match-limit", 0, "Max similarity matches to report (0 = default)")
	scanCmd.Flags().Bool("no-duplicates", false, "Skip duplicate detection")
	scanCmd.Flags().String("preset", "", "Detection tuning preset: default, strict, relaxed")
	scanCmd.Flags().String("cascade", "", "Path to the trained face detection model")
	scanCmd.Flags().Int("min-face-size", 0, "Smallest face to detect in pixels")
	scanCmd.Flags().Float64("scale-factor", 0, "Detection scale step (> 1.0)")
	scanCmd.Flags().Int("min-neighbors", 0, "Overlapping detections required per face")
}

// scanReport is the JSON document printed by --json. Matches is only
// populated when --match is given.
type scanReport struct {
	*sorter.Result
	Matches []index.Match `json:"matches,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg := config.Load()
	if preset := mustGetString(cmd, "preset"); preset != "" {
		p, ok := cfg.Preset(preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (supported: default, strict, relaxed)", preset)
		}
		cfg.ApplyPreset(p)
	}

	// Flags beat presets beat environment.
	if cascade := mustGetString(cmd, "cascade"); cascade != "" {
		cfg.Detection.CascadePath = cascade
	}
	if v := mustGetInt(cmd, "min-face-size"); v > 0 {
		cfg.Detection.MinFaceSize = v
	}
	if v := mustGetFloat64(cmd, "scale-factor"); v > 1.0 {
		cfg.Detection.ScaleFactor = v
	}
	if v := mustGetInt(cmd, "min-neighbors"); v > 0 {
		cfg.Detection.MinNeighbors = v
	}
	if v := mustGetInt(cmd, "clusters"); v > 0 {
		cfg.Cluster.Count = v
	}
	if v := mustGetInt64(cmd, "seed"); v != 0 {
		cfg.Cluster.Seed = v
	}

	jsonOut := mustGetBool(cmd, "json")
	names := mustGetStringSlice(cmd, "names")
	matchPath := mustGetString(cmd, "match")
	outputDir := mustGetString(cmd, "output")
	move := mustGetBool(cmd, "move")

	det, err := detector.New(detector.Config{
		MinFaceSize:  cfg.Detection.MinFaceSize,
		ScaleFactor:  cfg.Detection.ScaleFactor,
		MinNeighbors: cfg.Detection.MinNeighbors,
		CascadePath:  cfg.Detection.CascadePath,
	})
	if err != nil {
		return fmt.Errorf("failed to create face detector: %w", err)
	}

	var dup *fingerprint.DuplicateFinder
	if !mustGetBool(cmd, "no-duplicates") {
		dup = fingerprint.NewDuplicateFinder(cfg.Duplicates.Threshold)
	}

	var bar *progressbar.ProgressBar
	onProgress := func(p sorter.Progress) {
		if jsonOut {
			return
		}
		switch p.Phase {
		case "detecting":
			if bar == nil {
				bar = progressbar.NewOptions(p.Total,
					progressbar.OptionSetDescription("Detecting faces"),
					progressbar.OptionShowCount(),
					progressbar.OptionShowIts(),
					progressbar.OptionSetItsString("photos"),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetPredictTime(true),
					progressbar.OptionFullWidth(),
				)
			}
			bar.Add(1)
		case "clustering":
			if bar != nil {
				bar.Finish()
			}
			fmt.Printf("\nClustering %d faces...\n", p.Total)
		case "duplicates":
			fmt.Println("Looking for duplicates...")
		}
	}

	result, err := sorter.New(det, dup).Scan(dir, sorter.Options{
		Recursive:  mustGetBool(cmd, "recursive"),
		Clusters:   cfg.Cluster.Count,
		Seed:       cfg.Cluster.Seed,
		OnProgress: onProgress,
	})
	if err != nil {
		return err
	}

	var matches []index.Match
	if matchPath != "" {
		matches, err = matchFaces(det, cfg.Detection, matchPath, mustGetInt(cmd, "match-limit"))
		if err != nil {
			return fmt.Errorf("failed to match faces: %w", err)
		}
	}

	if outputDir != "" {
		res := organize.Results{
			FaceImages: result.FaceImages,
			People:     result.People,
			Duplicates: result.Duplicates,
			Locations:  result.Locations,
			Names:      names,
		}
		if err := organize.Write(outputDir, res, move); err != nil {
			return fmt.Errorf("failed to organize output: %w", err)
		}
	}

	if jsonOut {
		return printJSON(scanReport{Result: result, Matches: matches})
	}

	printReport(result, names, matches)
	if outputDir != "" {
		fmt.Printf("\nOrganized output written to %s\n", outputDir)
	}
	return nil
}

// matchFaces builds a similarity index over the faces accumulated during the
// scan and queries it with the faces found in the reference image. The
// reference image goes through a separate detector so its crops don't leak
// into the already-computed person groups.
func matchFaces(det *detector.Detector, dc config.DetectionConfig, refPath string, limit int) ([]index.Match, error) {
	if limit <= 0 {
		limit = constants.DefaultMatchLimit
	}

	vectors, paths := sorter.Features(det.Faces())
	idx, err := index.Build(vectors, paths)
	if err != nil {
		return nil, err
	}
	if idx.Len() == 0 {
		return nil, nil
	}

	refDet, err := detector.New(detector.Config{
		MinFaceSize:  dc.MinFaceSize,
		ScaleFactor:  dc.ScaleFactor,
		MinNeighbors: dc.MinNeighbors,
		CascadePath:  dc.CascadePath,
	})
	if err != nil {
		return nil, err
	}
	if !refDet.Detect(refPath) {
		return nil, fmt.Errorf("no face found in %s", refPath)
	}

	var matches []index.Match
	for _, face := range refDet.Faces() {
		matches = append(matches, idx.Search(face.Pixels, limit)...)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	// Multiple reference faces can hit the same photo.
	seen := map[string]bool{}
	deduped := matches[:0]
	for _, m := range matches {
		if seen[m.Path] {
			continue
		}
		seen[m.Path] = true
		deduped = append(deduped, m)
	}
	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped, nil
}

func printReport(result *sorter.Result, names []string, matches []index.Match) {
	fmt.Printf("\nScan %s\n", result.ScanID)
	fmt.Printf("Images scanned: %d\n", result.ImageCount)
	fmt.Printf("Images with faces: %d\n", len(result.FaceImages))

	if len(result.People) > 0 {
		fmt.Printf("\nPeople (%d groups):\n", len(result.People))
		labels := make([]int, 0, len(result.People))
		for label := range result.People {
			labels = append(labels, label)
		}
		sort.Ints(labels)
		for _, label := range labels {
			fmt.Printf("  %s: %d photos\n", personName(label, names), len(result.People[label]))
			for _, path := range result.People[label] {
				fmt.Printf("    %s\n", path)
			}
		}
	}

	if len(result.Locations) > 0 {
		fmt.Printf("\nLocations (%d places):\n", len(result.Locations))
		places := make([]string, 0, len(result.Locations))
		for place := range result.Locations {
			places = append(places, place)
		}
		sort.Strings(places)
		for _, place := range places {
			fmt.Printf("  %s: %d photos\n", place, len(result.Locations[place]))
		}
	}

	if len(result.Duplicates) > 0 {
		fmt.Printf("\nDuplicate groups: %d\n", len(result.Duplicates))
		for i, group := range result.Duplicates {
			fmt.Printf("  group %d:\n", i+1)
			for _, path := range group {
				fmt.Printf("    %s\n", path)
			}
		}
	}

	if len(matches) > 0 {
		fmt.Println("\nSimilar faces:")
		for _, m := range matches {
			fmt.Printf("  %s (distance %.2f)\n", m.Path, m.Distance)
		}
	}
}

// personName resolves a cluster label to its display name. Empty entries in
// --names fall back to person_N, same as the organized directory layout.
func personName(label int, names []string) string {
	if label >= 0 && label < len(names) && names[label] != "" {
		return names[label]
	}
	return fmt.Sprintf("person_%d", label)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
