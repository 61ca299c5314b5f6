//go:build !windows

package input

import "fmt"

// NewPlatform is the non-Windows stub. Effectful execution requires the
// Windows injector; every other mode goes through Simulated and never
// calls this.
func NewPlatform() (Injector, error) {
	return nil, fmt.Errorf("input: effectful injection is only supported on windows")
}
