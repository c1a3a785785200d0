// Package location reads GPS coordinates from image EXIF metadata. Images
// carrying a position are grouped under a coordinate-derived directory name;
// resolving coordinates to place names would need a geocoding service and is
// out of scope.
package location

import (
	"fmt"
	"log"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// Extract returns the coordinate directory name for an image, or ok=false
// when the image carries no usable GPS data. Missing EXIF blocks and images
// without GPS tags are normal for most photos and are not reported.
func Extract(path string) (name string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("warning: could not read EXIF from %s: %v", path, err)
		return "", false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return "", false
	}

	lat, lng, err := x.LatLong()
	if err != nil {
		return "", false
	}
	return CoordinateDir(lat, lng), true
}

// CoordinateDir formats decimal degrees as a filesystem-safe directory name
// with six decimals of precision.
func CoordinateDir(lat, lng float64) string {
	return fmt.Sprintf("%.6f_%.6f", lat, lng)
}
