// Package assets enumerates the still images that drive the slideshow.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Image is one still image, 1-indexed after lexicographic sorting.
type Image struct {
	Index int
	Path  string
}

// imageExts is the fixed set of extensions treated as images.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// List returns the images in dir, lexicographically sorted by filename.
// Files with other extensions are ignored; subdirectories are not descended.
func List(dir string) ([]Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExts[ext] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	images := make([]Image, len(names))
	for i, name := range names {
		images[i] = Image{
			Index: i + 1,
			Path:  filepath.Join(dir, name),
		}
	}
	return images, nil
}
