// Package frame produces the per-turn visual frame as a base64 PNG, via
// either the persisted synthetic canvas or a live capture of the real
// display. The two strategies share cursor bookkeeping, mark conversion and
// the encode path; they are selected by configuration and never mixed
// within a turn.
package frame

import (
	"context"
	"encoding/base64"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/internal/imaging"
)

// Source produces one frame for a batch of already-canonicalized actions.
// An empty screenshot with a nil error means capture failed in a way the
// turn should survive; the caller reports "no screenshot" and continues.
type Source interface {
	Produce(ctx context.Context, actions []string) (screenshotB64 string, applied []string, err error)
}

// EncodeFrame converts a BGRA capture buffer to RGBA, resamples it to the
// target resolution when one is configured, and returns the base64 PNG. A
// resize failure falls back to the unresized frame with a warning.
func EncodeFrame(bgra []byte, w, h, targetW, targetH int, log *zap.Logger) (string, error) {
	rgba := imaging.BGRAToRGBA(bgra)

	outW, outH := w, h
	if targetW > 0 && targetH > 0 && (targetW != w || targetH != h) {
		if scaled, ok := imaging.Resize(rgba, w, h, targetW, targetH); ok {
			rgba, outW, outH = scaled, targetW, targetH
		} else {
			log.Warn("Frame resize failed, keeping source resolution.",
				zap.Int("width", w), zap.Int("height", h),
				zap.Int("target_width", targetW), zap.Int("target_height", targetH))
		}
	}

	png, err := imaging.EncodePNG(rgba, outW, outH)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
