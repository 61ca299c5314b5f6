//go:build !windows

package overlay

import "fmt"

// NewPlatformSurface reports that no overlay surface exists off Windows.
func NewPlatformSurface(blockInput bool) (Surface, error) {
	return nil, fmt.Errorf("overlay: no platform surface available on this OS")
}
