package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/internal/statesync"
)

const (
	notesFile = "memory.json"

	// EmptyRecall is what recall yields before anything has been remembered.
	EmptyRecall = "(no memories yet)"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NoteStore is the append-only persisted list of remembered strings for a
// run directory. Missing or corrupt files read as empty; writes are atomic.
type NoteStore struct {
	path string
	log  *zap.Logger
}

// NewNoteStore returns a store backed by the run directory's note file.
func NewNoteStore(runDir string, log *zap.Logger) *NoteStore {
	return &NoteStore{path: filepath.Join(runDir, notesFile), log: log}
}

// All returns the stored notes in insertion order.
func (n *NoteStore) All() []string {
	data, err := os.ReadFile(n.path)
	if err != nil {
		if !os.IsNotExist(err) {
			n.log.Warn("Failed to read note store, treating as empty.", zap.Error(err))
		}
		return nil
	}
	var notes []string
	if err := json.Unmarshal(data, &notes); err != nil {
		n.log.Warn("Note store is corrupt, treating as empty.", zap.Error(err))
		return nil
	}
	return notes
}

// Append persists one more note at the end of the list.
func (n *NoteStore) Append(note string) error {
	notes := append(n.All(), note)
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("registry: marshal notes: %w", err)
	}
	return statesync.WriteFileAtomic(n.path, data, 0o644)
}

// RecallText renders the full note list as a bulleted block, or the empty
// sentinel when nothing has been remembered yet.
func (n *NoteStore) RecallText() string {
	notes := n.All()
	if len(notes) == 0 {
		return EmptyRecall
	}
	var b strings.Builder
	for i, note := range notes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(note)
	}
	return b.String()
}
