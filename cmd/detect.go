package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martinhruz/image-sorter/internal/config"
	"github.com/martinhruz/image-sorter/internal/detector"
)

var detectCmd = &cobra.Command{
	Use:   "detect [image]",
	Short: "Detect faces in a single image",
	Long: `Detect faces in a single image and print their positions. Useful for
tuning detection parameters before running a full scan.

Examples:
  # Detect with configured defaults
  image-sorter detect ./photo.jpg

  # Lower the bar for small or uncertain faces
  image-sorter detect ./photo.jpg --min-face-size 20 --min-neighbors 3`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().String("preset", "", "Detection tuning preset: default, strict, relaxed")
	detectCmd.Flags().String("cascade", "", "Path to the trained face detection model")
	detectCmd.Flags().Int("min-face-size", 0, "Smallest face to detect in pixels")
	detectCmd.Flags().Float64("scale-factor", 0, "Detection scale step (> 1.0)")
	detectCmd.Flags().Int("min-neighbors", 0, "Overlapping detections required per face")
}

func runDetect(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := config.Load()
	if preset := mustGetString(cmd, "preset"); preset != "" {
		p, ok := cfg.Preset(preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (supported: default, strict, relaxed)", preset)
		}
		cfg.ApplyPreset(p)
	}
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

	det, err := detector.New(detector.Config{
		MinFaceSize:  cfg.Detection.MinFaceSize,
		ScaleFactor:  cfg.Detection.ScaleFactor,
		MinNeighbors: cfg.Detection.MinNeighbors,
		CascadePath:  cfg.Detection.CascadePath,
	})
	if err != nil {
		return fmt.Errorf("failed to create face detector: %w", err)
	}

	regions, err := det.Locate(path)
	if err != nil {
		return fmt.Errorf("failed to detect faces: %w", err)
	}

	if len(regions) == 0 {
		fmt.Println("No faces found")
		return nil
	}

	fmt.Printf("Found %d face(s):\n", len(regions))
	for i, r := range regions {
		fmt.Printf("  %d: x=%d y=%d size=%d score=%.2f neighbors=%d\n",
			i+1, r.X, r.Y, r.Size, r.Score, r.Neighbors)
	}
	return nil
}
