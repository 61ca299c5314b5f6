package frame

import "errors"

// ErrNoDisplay indicates the platform has no capturable display surface.
var ErrNoDisplay = errors.New("frame: no capturable display")

// Grabber is the capability boundary for live display capture. Capture
// returns a tightly packed, top-down BGRA buffer of the full display.
type Grabber interface {
	Capture() (bgra []byte, w, h int, err error)
}
