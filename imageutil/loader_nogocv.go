//go:build !gocv

package imageutil

import "fmt"

// LoadGrayCV reports ErrLoaderUnavailable; rebuild with -tags gocv to use
// the OpenCV decoder.
func LoadGrayCV(path string) (*GrayImage, error) {
	return nil, fmt.Errorf("gocv loader for %s: %w", path, ErrLoaderUnavailable)
}
