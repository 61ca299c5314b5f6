// Package statesync persists the shared mark/cursor state under a run
// directory and carries the wake-up signal between the turn process and the
// long-lived overlay. Every write is atomic (temp file + rename) so the
// overlay never observes a half-written document.
package statesync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteFileAtomic writes data to a sibling temp file and renames it over
// path. On any failure the temp file is removed and path is untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("statesync: write temp for %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("statesync: rename %s: %w", path, err)
	}
	return nil
}
