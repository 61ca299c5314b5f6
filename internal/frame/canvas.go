package frame

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/api/schemas"
	"github.com/xkilldash9x/marionette/internal/config"
	"github.com/xkilldash9x/marionette/internal/render"
	"github.com/xkilldash9x/marionette/internal/statesync"
)

const canvasFile = "virtual_canvas.raw"

// CanvasSource implements the synthetic-canvas strategy: a persisted raw
// pixel buffer stands in for the display and this turn's marks are baked
// into it. The real display is never touched.
type CanvasSource struct {
	store   *statesync.Store
	runDir  string
	canvas  config.CanvasConfig
	capture config.CaptureConfig
	log     *zap.Logger
}

// NewCanvasSource builds the synthetic strategy over a run directory.
func NewCanvasSource(runDir string, cfg *config.Config, store *statesync.Store, log *zap.Logger) *CanvasSource {
	return &CanvasSource{
		store:   store,
		runDir:  runDir,
		canvas:  cfg.Canvas,
		capture: cfg.Capture,
		log:     log,
	}
}

// CanvasPath is the location of the raw canvas buffer.
func (c *CanvasSource) CanvasPath() string {
	return filepath.Join(c.runDir, canvasFile)
}

// loadCanvas returns the persisted buffer, or a zero-filled one when the
// file is absent or its size does not match the configured resolution. A
// mis-sized buffer is never partially reused.
func (c *CanvasSource) loadCanvas() []byte {
	want := c.canvas.Width * c.canvas.Height * 4
	data, err := os.ReadFile(c.CanvasPath())
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("Failed to read canvas, starting blank.", zap.Error(err))
		}
		return make([]byte, want)
	}
	if len(data) != want {
		c.log.Warn("Canvas size mismatch, starting blank.",
			zap.Int("got", len(data)), zap.Int("want", want))
		return make([]byte, want)
	}
	return data
}

// Produce draws the turn's new marks and cursor onto the canvas, persists
// it atomically and returns the encoded frame.
func (c *CanvasSource) Produce(ctx context.Context, actions []string) (string, []string, error) {
	marks, endX, endY, moved := statesync.MarksFromActions(actions)

	// The cursor shifts exactly once per turn: prev takes last even when
	// nothing moved the pointer, so an idle turn fades the trail in place.
	var cursor schemas.CursorState
	var err error
	if moved {
		cursor, err = c.store.AdvanceCursor(endX, endY)
	} else {
		cursor, err = c.store.ShiftCursor()
	}
	if err != nil {
		c.log.Warn("Failed to persist cursor state.", zap.Error(err))
	}

	surface := &render.Surface{
		Pix: c.loadCanvas(),
		W:   c.canvas.Width,
		H:   c.canvas.Height,
	}
	// Old marks are already baked into the persisted pixels; only this
	// turn's marks are drawn, plus the cursor indicators on top.
	render.DrawMarks(surface, marks, cursor, render.CanvasStyle)

	if err := statesync.WriteFileAtomic(c.CanvasPath(), surface.Pix, 0o644); err != nil {
		c.log.Warn("Failed to persist canvas.", zap.Error(err))
	}

	b64, err := EncodeFrame(surface.Pix, surface.W, surface.H, c.capture.Width, c.capture.Height, c.log)
	if err != nil {
		return "", actions, err
	}
	return b64, actions, nil
}
