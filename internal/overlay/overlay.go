// Package overlay hosts the long-lived process that mirrors the persisted
// mark and cursor state onto a full-screen, always-on-top transparent
// surface. It communicates with the turn process only through statesync:
// two files plus one named wake-up event, no shared memory.
package overlay

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/internal/render"
	"github.com/xkilldash9x/marionette/internal/statesync"
)

// Surface is the platform window the overlay draws on. Present expects a
// premultiplied BGRA buffer of exactly w*h*4 bytes. Pump drains the
// platform event queue and reports false once the surface is destroyed.
type Surface interface {
	Show() error
	Present(pix []byte, w, h int) error
	Size() (w, h int)
	Pump() bool
	Close() error
}

// State is the runner's lifecycle position, for logging and tests.
type State string

const (
	StateCreated   State = "created"
	StateShown     State = "shown"
	StateIdle      State = "idle"
	StateRedrawing State = "redrawing"
	StateDestroyed State = "destroyed"
)

// pumpSlice bounds how long the runner blocks on the notifier between
// event-queue pumps. The surface must stay responsive while waiting.
const pumpSlice = 50 * time.Millisecond

// Runner owns the overlay loop: wait for a wake-up or poll expiry, check
// whether the persisted state changed, redraw when it did. Redraw is
// idempotent for identical state, so coalesced or spurious wakes are safe.
type Runner struct {
	store    *statesync.Store
	notifier statesync.Notifier
	surface  Surface
	poll     time.Duration
	log      *zap.Logger

	state         atomic.Value // State
	lastGen       uint64
	seenGen       bool
	lastMarksMod  time.Time
	lastCursorMod time.Time
}

// NewRunner wires a runner over an existing store, notifier and surface.
func NewRunner(store *statesync.Store, notifier statesync.Notifier, surface Surface, poll time.Duration, log *zap.Logger) *Runner {
	r := &Runner{
		store:    store,
		notifier: notifier,
		surface:  surface,
		poll:     poll,
		log:      log,
	}
	r.state.Store(StateCreated)
	return r
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State { return r.state.Load().(State) }

func (r *Runner) setState(s State) { r.state.Store(s) }

// Run shows the surface and drives the redraw loop until ctx is done or
// the surface is destroyed.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.surface.Show(); err != nil {
		return err
	}
	r.setState(StateShown)
	defer func() {
		r.setState(StateDestroyed)
		r.surface.Close()
	}()

	// First paint reflects whatever state already exists on disk.
	r.redraw()

	for {
		woken := r.waitPumping(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if r.State() == StateDestroyed {
			return nil
		}
		if woken || r.changed() {
			r.redraw()
		}
	}
}

// waitPumping blocks up to one poll interval, pumping the surface's event
// queue between short notifier waits so the window never stalls.
func (r *Runner) waitPumping(ctx context.Context) bool {
	deadline := time.Now().Add(r.poll)
	for {
		if ctx.Err() != nil {
			return false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		slice := pumpSlice
		if remaining < slice {
			slice = remaining
		}
		woken := r.notifier.Wait(ctx, slice)
		if !r.surface.Pump() {
			r.setState(StateDestroyed)
			return false
		}
		if woken {
			return true
		}
	}
}

// changed reports whether the persisted state moved since the last redraw,
// using the generation counter with file timestamps as a fallback for
// writers that predate it.
func (r *Runner) changed() bool {
	cur := r.store.LoadCursor()
	if !r.seenGen || cur.Generation != r.lastGen {
		return true
	}
	if mod, ok := mtime(r.store.MarksPath()); ok && !mod.Equal(r.lastMarksMod) {
		return true
	}
	if mod, ok := mtime(r.store.CursorPath()); ok && !mod.Equal(r.lastCursorMod) {
		return true
	}
	return false
}

// redraw reloads both persisted documents and re-renders the full mark
// history onto a fresh premultiplied buffer.
func (r *Runner) redraw() {
	r.setState(StateRedrawing)
	defer func() { r.setState(StateIdle) }()

	marks := r.store.LoadMarks()
	cursor := r.store.LoadCursor()

	w, h := r.surface.Size()
	surface := render.NewSurface(w, h, true)
	render.DrawMarks(surface, marks, cursor, render.OverlayStyle)

	if err := r.surface.Present(surface.Pix, w, h); err != nil {
		r.log.Warn("Overlay present failed.", zap.Error(err))
		return
	}

	r.lastGen = cursor.Generation
	r.seenGen = true
	if mod, ok := mtime(r.store.MarksPath()); ok {
		r.lastMarksMod = mod
	}
	if mod, ok := mtime(r.store.CursorPath()); ok {
		r.lastCursorMod = mod
	}
	r.log.Debug("Overlay redrawn.",
		zap.Int("marks", len(marks)),
		zap.Uint64("generation", cursor.Generation))
}

func mtime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
