package frame

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/internal/config"
	"github.com/xkilldash9x/marionette/internal/statesync"
)

// ScreenSource implements the live-capture strategy: persist the turn's
// state for the overlay, signal it, give the redraw time to land, then
// grab the real display.
type ScreenSource struct {
	store    *statesync.Store
	notifier statesync.Notifier
	grabber  Grabber
	capture  config.CaptureConfig
	overlay  config.OverlayConfig
	log      *zap.Logger
}

// NewScreenSource builds the live strategy. The notifier may be nil when
// no overlay participates.
func NewScreenSource(cfg *config.Config, store *statesync.Store, notifier statesync.Notifier, grabber Grabber, log *zap.Logger) *ScreenSource {
	return &ScreenSource{
		store:    store,
		notifier: notifier,
		grabber:  grabber,
		capture:  cfg.Capture,
		overlay:  cfg.Overlay,
		log:      log,
	}
}

// Produce updates the shared state, wakes the overlay and captures the
// display. A capture failure yields an empty screenshot, not an error; the
// turn continues without an image.
func (s *ScreenSource) Produce(ctx context.Context, actions []string) (string, []string, error) {
	marks, endX, endY, moved := statesync.MarksFromActions(actions)
	// One cursor update per turn regardless of pointer activity, so the
	// previous-position indicator always reflects the prior turn.
	var err error
	if moved {
		_, err = s.store.AdvanceCursor(endX, endY)
	} else {
		_, err = s.store.ShiftCursor()
	}
	if err != nil {
		s.log.Warn("Failed to persist cursor state.", zap.Error(err))
	}

	if s.overlay.Enabled {
		if err := s.store.AppendMarks(marks); err != nil {
			s.log.Warn("Failed to persist mark history.", zap.Error(err))
		}
		// Best effort: an absent overlay just means nobody is listening.
		if s.notifier != nil {
			if err := s.notifier.Signal(); err != nil {
				s.log.Debug("Overlay signal failed.", zap.Error(err))
			}
		}
		sleepCtx(ctx, s.capture.SettleDelay)
	}

	sleepCtx(ctx, s.capture.Delay)

	bgra, w, h, err := s.grabber.Capture()
	if err != nil {
		s.log.Warn("Display capture failed, continuing without a frame.", zap.Error(err))
		return "", actions, nil
	}

	b64, err := EncodeFrame(bgra, w, h, s.capture.Width, s.capture.Height, s.log)
	if err != nil {
		s.log.Warn("Frame encode failed, continuing without a frame.", zap.Error(err))
		return "", actions, nil
	}
	return b64, actions, nil
}
