package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "image-sorter",
	Short: "A CLI tool for sorting photo collections by the people in them",
	Long: `Image Sorter is a CLI application that scans a directory of photos,
detects human faces, groups the photos by person and finds near-duplicate
shots. The results can be printed as a report or written out as an
organized directory tree.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
