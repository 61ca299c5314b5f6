package statesync

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/api/schemas"
	"github.com/xkilldash9x/marionette/internal/extract"
)

const (
	marksFile  = "marks.json"
	cursorFile = "cursor_state.json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store reads and writes the persisted mark history and cursor state for
// one run directory. Readers tolerate missing files; both documents start
// existing on the first write.
type Store struct {
	dir string
	log *zap.Logger
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, log *zap.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// MarksPath is the absolute path of the mark history document.
func (s *Store) MarksPath() string { return filepath.Join(s.dir, marksFile) }

// CursorPath is the absolute path of the cursor state document.
func (s *Store) CursorPath() string { return filepath.Join(s.dir, cursorFile) }

// LoadMarks returns the accumulated mark history, oldest first. A missing
// file is an empty history; a corrupt file is treated the same way, with a
// warning, so one bad write never wedges the pipeline.
func (s *Store) LoadMarks() []schemas.Mark {
	data, err := os.ReadFile(s.MarksPath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("Failed to read mark history, starting empty.", zap.Error(err))
		}
		return nil
	}
	var marks []schemas.Mark
	if err := json.Unmarshal(data, &marks); err != nil {
		s.log.Warn("Mark history is corrupt, starting empty.", zap.Error(err))
		return nil
	}
	return marks
}

// AppendMarks appends new marks to the persisted history.
func (s *Store) AppendMarks(marks []schemas.Mark) error {
	if len(marks) == 0 {
		return nil
	}
	all := append(s.LoadMarks(), marks...)
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("statesync: marshal marks: %w", err)
	}
	return WriteFileAtomic(s.MarksPath(), data, 0o644)
}

// LoadCursor returns the persisted cursor state; a missing or corrupt file
// yields the zero state.
func (s *Store) LoadCursor() schemas.CursorState {
	var cur schemas.CursorState
	data, err := os.ReadFile(s.CursorPath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("Failed to read cursor state, starting fresh.", zap.Error(err))
		}
		return cur
	}
	if err := json.Unmarshal(data, &cur); err != nil {
		s.log.Warn("Cursor state is corrupt, starting fresh.", zap.Error(err))
		return schemas.CursorState{}
	}
	return cur
}

// AdvanceCursor shifts the current position into the previous slot, records
// (x, y) as current, bumps the generation and persists the result.
func (s *Store) AdvanceCursor(x, y int) (schemas.CursorState, error) {
	return s.updateCursor(&x, &y)
}

// ShiftCursor is the pointerless-turn update: the previous slot still takes
// the current position, but the current position is left as it was. After
// an idle turn both indicators sit on the same point.
func (s *Store) ShiftCursor() (schemas.CursorState, error) {
	return s.updateCursor(nil, nil)
}

// updateCursor runs exactly once per turn: prev always takes last, last
// takes the new position when one exists, and the result is persisted with
// a bumped generation either way.
func (s *Store) updateCursor(x, y *int) (schemas.CursorState, error) {
	cur := s.LoadCursor()
	cur.PrevX, cur.PrevY = cur.LastX, cur.LastY
	if x != nil && y != nil {
		cur.LastX, cur.LastY = x, y
	}
	cur.Generation++

	data, err := json.Marshal(cur)
	if err != nil {
		return cur, fmt.Errorf("statesync: marshal cursor: %w", err)
	}
	if err := WriteFileAtomic(s.CursorPath(), data, 0o644); err != nil {
		return cur, err
	}
	return cur, nil
}

// MarksFromActions converts canonical, already-validated invocation strings
// into renderable marks and reports the terminal pointer position of the
// batch. ok is false when no action in the batch moved the pointer.
func MarksFromActions(actions []string) (marks []schemas.Mark, endX, endY int, ok bool) {
	for _, action := range actions {
		inv, err := extract.ParseInvocation(action)
		if err != nil {
			continue
		}
		switch inv.Name {
		case "click", "double_click", "right_click":
			if len(inv.Args) != 2 {
				continue
			}
			x, y := int(inv.Args[0].Num), int(inv.Args[1].Num)
			marks = append(marks, schemas.Mark{Type: schemas.MarkType(inv.Name), X: x, Y: y})
			endX, endY, ok = x, y, true
		case "drag":
			if len(inv.Args) != 4 {
				continue
			}
			m := schemas.Mark{
				Type: schemas.MarkDrag,
				X1:   int(inv.Args[0].Num), Y1: int(inv.Args[1].Num),
				X2: int(inv.Args[2].Num), Y2: int(inv.Args[3].Num),
			}
			marks = append(marks, m)
			endX, endY, ok = m.X2, m.Y2, true
		}
	}
	return marks, endX, endY, ok
}
