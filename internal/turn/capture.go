package turn

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/api/schemas"
	"github.com/xkilldash9x/marionette/internal/config"
	"github.com/xkilldash9x/marionette/internal/frame"
	"github.com/xkilldash9x/marionette/internal/statesync"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// InProcessCapture produces the frame inside the current process, using
// the strategy the configuration selects.
func InProcessCapture(cfg *config.Config, log *zap.Logger) CaptureFunc {
	return func(ctx context.Context, req schemas.FrameRequest) schemas.FrameResponse {
		store := statesync.NewStore(req.RunDir, log)

		var src frame.Source
		if cfg.Canvas.Enabled {
			src = frame.NewCanvasSource(req.RunDir, cfg, store, log)
		} else {
			grabber, err := frame.NewPlatformGrabber()
			if err != nil {
				return schemas.FrameResponse{Applied: req.Actions, Error: err.Error()}
			}
			notifier, err := statesync.NewEventNotifier(cfg.Overlay.EventName)
			if err != nil {
				// The overlay just never gets woken early; polling covers it.
				log.Warn("Overlay notifier unavailable.", zap.Error(err))
				notifier = nil
			} else {
				defer notifier.Close()
			}
			src = frame.NewScreenSource(cfg, store, notifier, grabber, log)
		}

		b64, applied, err := src.Produce(ctx, req.Actions)
		if err != nil {
			return schemas.FrameResponse{Applied: applied, Error: err.Error()}
		}
		return schemas.FrameResponse{ScreenshotB64: b64, Applied: applied}
	}
}

// SubprocessCapture runs the capture stage as a short-lived child process
// (this binary's own capture command) with a hard timeout. Timeouts,
// crashes and non-JSON output all degrade to an empty frame; the turn
// continues.
func SubprocessCapture(cfg *config.Config, log *zap.Logger) CaptureFunc {
	return func(ctx context.Context, req schemas.FrameRequest) schemas.FrameResponse {
		exe, err := os.Executable()
		if err != nil {
			return schemas.FrameResponse{Error: fmt.Sprintf("resolve executable: %v", err)}
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.Capture.SubprocessTimeout)
		defer cancel()

		payload, err := json.Marshal(req)
		if err != nil {
			return schemas.FrameResponse{Error: fmt.Sprintf("marshal request: %v", err)}
		}

		cmd := exec.CommandContext(ctx, exe, "capture")
		cmd.Stdin = bytes.NewReader(payload)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			log.Warn("Capture subprocess failed.",
				zap.Error(err),
				zap.String("stderr", stderr.String()))
			return schemas.FrameResponse{Error: fmt.Sprintf("capture subprocess: %v", err)}
		}

		var res schemas.FrameResponse
		if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
			log.Warn("Capture subprocess produced non-JSON output.", zap.Error(err))
			return schemas.FrameResponse{Error: fmt.Sprintf("decode capture output: %v", err)}
		}
		return res
	}
}
