// Package turn drives one full pipeline cycle: extract invocations from
// the narrative, execute them through the registry, produce the visual
// frame, and assemble the feedback text for the outer loop. Nothing in
// here is allowed to abort the turn; every failure degrades to a poorer
// response document instead.
package turn

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/api/schemas"
	"github.com/xkilldash9x/marionette/internal/config"
	"github.com/xkilldash9x/marionette/internal/extract"
	"github.com/xkilldash9x/marionette/internal/input"
	"github.com/xkilldash9x/marionette/internal/registry"
)

// noScreenshot is appended to feedback when frame production failed.
const noScreenshot = "(Screenshot capture failed)"

// CaptureFunc produces the turn's frame. Implementations never return an
// error; failure is an empty screenshot plus a diagnostic in the response.
type CaptureFunc func(ctx context.Context, req schemas.FrameRequest) schemas.FrameResponse

// Runner executes whole turns.
type Runner struct {
	cfg     *config.Config
	log     *zap.Logger
	capture CaptureFunc
}

// NewRunner wires a turn runner over a capture strategy.
func NewRunner(cfg *config.Config, log *zap.Logger, capture CaptureFunc) *Runner {
	return &Runner{cfg: cfg, log: log, capture: capture}
}

// Run performs one turn. The response is always usable, even when every
// stage inside degraded.
func (r *Runner) Run(ctx context.Context, req schemas.TurnRequest) schemas.TurnResponse {
	runDir := req.RunDir
	if runDir == "" {
		runDir = r.cfg.RunDir
	}

	lines := extract.Extract(req.Raw)
	ec := registry.NewContext()

	mode := r.cfg.Execution.EffectiveMode()
	if mode == config.ModeEffectful && r.cfg.Canvas.Enabled {
		// The synthetic canvas never touches the real display; injecting
		// real input against it would act on a screen nobody observes.
		mode = config.ModeLogical
	}
	var injector input.Injector
	if mode == config.ModeEffectful {
		platform, err := input.NewPlatform()
		if err != nil {
			r.log.Warn("Platform input unavailable, degrading to logical execution.", zap.Error(err))
			mode = config.ModeLogical
		} else {
			injector = platform
		}
	}

	notes := registry.NewNoteStore(runDir, r.log)
	reg := registry.New(mode, injector, notes, r.log)
	reg.ApplyAll(ctx, ec, lines)

	r.log.Info("Turn executed.",
		zap.String("turn_id", ec.TurnID),
		zap.String("mode", string(mode)),
		zap.Int("extracted", len(lines)),
		zap.Int("executed", len(ec.Executed)),
		zap.Int("errors", len(ec.Errors)))

	frame := r.capture(ctx, schemas.FrameRequest{Actions: ec.Executed, RunDir: runDir})
	if frame.Error != "" {
		r.log.Warn("Frame production reported a failure.", zap.String("error", frame.Error))
	}

	return schemas.TurnResponse{
		Executed:      ec.Executed,
		ExtractedCode: lines,
		Malformed:     ec.Errors,
		Ignored:       ec.Ignored,
		ScreenshotB64: frame.ScreenshotB64,
		Feedback:      buildFeedback(ec, frame.ScreenshotB64),
	}
}

// buildFeedback renders the turn outcome as the text the model sees next
// turn: one line per invocation outcome, recalled memories, a nudge when
// the turn accomplished nothing, and a note when no frame could be
// captured.
func buildFeedback(ec *registry.Context, screenshot string) string {
	var parts []string
	parts = append(parts, registry.Summary(ec)...)

	for _, recalled := range ec.Recalled {
		parts = append(parts, "Memories:\n"+recalled)
	}

	// The nudge fires whenever nothing executed and nothing errored, so a
	// turn whose invocations were all ignored still gets the operation list.
	if len(ec.Executed) == 0 && len(ec.Errors) == 0 {
		parts = append(parts, registry.NudgeText())
	}
	if screenshot == "" {
		parts = append(parts, noScreenshot)
	}
	return strings.Join(parts, "\n")
}
