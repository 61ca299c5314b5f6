package statesync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/api/schemas"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), zap.NewNop())
}

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_LoadMarks_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.LoadMarks())
}

func TestStore_LoadMarks_CorruptFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.MarksPath(), []byte("{nope"), 0o644))
	assert.Empty(t, s.LoadMarks())
}

func TestStore_AppendMarks_AccumulatesInOrder(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendMarks([]schemas.Mark{{Type: schemas.MarkClick, X: 100, Y: 200}}))
	require.NoError(t, s.AppendMarks([]schemas.Mark{
		{Type: schemas.MarkDrag, X1: 0, Y1: 0, X2: 500, Y2: 500},
	}))

	marks := s.LoadMarks()
	require.Len(t, marks, 2)
	assert.Equal(t, schemas.MarkClick, marks[0].Type)
	assert.Equal(t, schemas.MarkDrag, marks[1].Type)
}

func TestStore_AdvanceCursor_ShiftsAndBumpsGeneration(t *testing.T) {
	s := newTestStore(t)

	cur, err := s.AdvanceCursor(100, 200)
	require.NoError(t, err)
	require.True(t, cur.Valid())
	assert.False(t, cur.HasPrev())
	assert.Equal(t, uint64(1), cur.Generation)

	cur, err = s.AdvanceCursor(300, 400)
	require.NoError(t, err)
	require.True(t, cur.HasPrev())
	assert.Equal(t, 100, *cur.PrevX)
	assert.Equal(t, 200, *cur.PrevY)
	assert.Equal(t, 300, *cur.LastX)
	assert.Equal(t, 400, *cur.LastY)
	assert.Equal(t, uint64(2), cur.Generation)

	// Round-trips through the persisted document.
	loaded := s.LoadCursor()
	assert.Equal(t, cur, loaded)
}

func TestStore_ShiftCursor_KeepsLastAndBumpsGeneration(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AdvanceCursor(100, 200)
	require.NoError(t, err)

	cur, err := s.ShiftCursor()
	require.NoError(t, err)
	require.True(t, cur.HasPrev())
	assert.Equal(t, 100, *cur.PrevX)
	assert.Equal(t, 200, *cur.PrevY)
	assert.Equal(t, 100, *cur.LastX)
	assert.Equal(t, 200, *cur.LastY)
	assert.Equal(t, uint64(2), cur.Generation)
	assert.Equal(t, cur, s.LoadCursor())
}

func TestStore_ShiftCursor_FromZeroStateStaysInvalid(t *testing.T) {
	s := newTestStore(t)

	cur, err := s.ShiftCursor()
	require.NoError(t, err)
	assert.False(t, cur.Valid())
	assert.False(t, cur.HasPrev())
	assert.Equal(t, uint64(1), cur.Generation)
}

func TestMarksFromActions(t *testing.T) {
	marks, x, y, ok := MarksFromActions([]string{
		"click(100, 200)",
		`write("hello")`,
		"drag(0, 0, 900, 800)",
		`remember("note")`,
	})
	require.True(t, ok)
	require.Len(t, marks, 2)
	assert.Equal(t, schemas.MarkClick, marks[0].Type)
	assert.Equal(t, schemas.MarkDrag, marks[1].Type)
	assert.Equal(t, 900, x)
	assert.Equal(t, 800, y)
}

func TestMarksFromActions_NoPointerActions(t *testing.T) {
	marks, _, _, ok := MarksFromActions([]string{`write("hi")`, `recall()`})
	assert.False(t, ok)
	assert.Empty(t, marks)
}

func TestChanNotifier_SignalBeforeWaitStillWakes(t *testing.T) {
	n := NewChanNotifier()
	require.NoError(t, n.Signal())
	assert.True(t, n.Wait(context.Background(), time.Second))
	// Consumed: the next wait times out.
	assert.False(t, n.Wait(context.Background(), 10*time.Millisecond))
}

func TestChanNotifier_DoubleSignalCoalesces(t *testing.T) {
	n := NewChanNotifier()
	require.NoError(t, n.Signal())
	require.NoError(t, n.Signal())
	assert.True(t, n.Wait(context.Background(), time.Second))
	assert.False(t, n.Wait(context.Background(), 10*time.Millisecond))
}

func TestChanNotifier_WaitHonorsContext(t *testing.T) {
	n := NewChanNotifier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, n.Wait(ctx, time.Minute))
}
