//go:build !windows

package frame

// NewPlatformGrabber reports that live capture is unavailable off Windows.
// The synthetic-canvas strategy is the supported path elsewhere.
func NewPlatformGrabber() (Grabber, error) {
	return nil, ErrNoDisplay
}
