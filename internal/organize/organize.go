// Package organize writes sorting results to an output directory tree and
// provides the file operations the sorter needs: image discovery, copying
// and moving with conflict-safe renaming.
package organize

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// imageExtensions lists the file extensions treated as images.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

// ImageFiles returns all image file paths under dir. With recursive false
// only the directory itself is listed.
func ImageFiles(dir string, recursive bool) ([]string, error) {
	var files []string

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && isImage(e.Name()) {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
		return files, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isImage(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

func isImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// CopyFile copies src into destDir, creating it when needed. With rename
// true an existing destination gets a timestamp suffix instead of being
// overwritten. Returns the destination path.
func CopyFile(src, destDir string, rename bool) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if rename {
		dest = deconflict(dest)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	return dest, nil
}

// MoveFile moves src into destDir. Falls back to copy-and-remove when a
// plain rename fails (e.g. across filesystems).
func MoveFile(src, destDir string, rename bool) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if rename {
		dest = deconflict(dest)
	}

	if err := os.Rename(src, dest); err == nil {
		return dest, nil
	}

	if _, err := CopyFile(src, destDir, rename); err != nil {
		return "", err
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("failed to remove source after copy: %w", err)
	}
	return dest, nil
}

// deconflict appends a timestamp to the file name when the path exists.
func deconflict(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%s%s", stem, time.Now().Format("20060102_150405"), ext)
}

// Results describes what a scan produced, ready to be laid out on disk.
type Results struct {
	FaceImages []string            // images with at least one detected face
	People     map[int][]string    // person label -> contributing images
	Duplicates [][]string          // groups of near-identical images
	Locations  map[string][]string // coordinate name -> geotagged images
	Names      []string            // optional person names, by label
}

// Write lays the results out under outDir:
//
//	faces/                 every image with a face
//	people/<person>/       one folder per cluster label
//	duplicates/group_N/    one folder per duplicate group
//	locations/<lat_lng>/   one folder per GPS position
//
// With move true files are moved instead of copied. Person folders use
// sanitized names when provided, person_N otherwise.
func Write(outDir string, res Results, move bool) error {
	for label, images := range res.People {
		dir := filepath.Join(outDir, "people", personDir(label, res.Names))
		for _, img := range images {
			// Moving would break the image's membership in other groups,
			// so person folders are always copies of the faces/ originals.
			if _, err := CopyFile(img, dir, false); err != nil {
				return fmt.Errorf("failed to place person image: %w", err)
			}
		}
	}

	for i, group := range res.Duplicates {
		dir := filepath.Join(outDir, "duplicates", fmt.Sprintf("group_%d", i))
		for _, img := range group {
			if _, err := CopyFile(img, dir, false); err != nil {
				return fmt.Errorf("failed to place duplicate image: %w", err)
			}
		}
	}

	for name, images := range res.Locations {
		dir := filepath.Join(outDir, "locations", name)
		for _, img := range images {
			if _, err := CopyFile(img, dir, false); err != nil {
				return fmt.Errorf("failed to place location image: %w", err)
			}
		}
	}

	// Originals are transferred last; moving them earlier would break the
	// person and duplicate copies that read from the source paths.
	transfer := CopyFile
	if move {
		transfer = MoveFile
	}
	for _, img := range res.FaceImages {
		if _, err := transfer(img, filepath.Join(outDir, "faces"), false); err != nil {
			return fmt.Errorf("failed to place face image: %w", err)
		}
	}

	return nil
}

func personDir(label int, names []string) string {
	if label >= 0 && label < len(names) && names[label] != "" {
		return SanitizeDirName(names[label])
	}
	return fmt.Sprintf("person_%d", label)
}
