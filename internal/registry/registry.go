package registry

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/internal/config"
	"github.com/xkilldash9x/marionette/internal/extract"
	"github.com/xkilldash9x/marionette/internal/input"
)

// coordinateHint is appended to every range violation so the model learns
// the coordinate space from its own failures.
const coordinateHint = "coordinates must be integers in the range 0-1000"

// Registry executes a turn's invocation list under one mode. It owns no
// turn state; everything observable lands on the Context passed in.
type Registry struct {
	mode     config.Mode
	injector input.Injector
	notes    *NoteStore
	log      *zap.Logger
}

// New builds a registry. The injector may be nil for non-effectful modes.
func New(mode config.Mode, injector input.Injector, notes *NoteStore, log *zap.Logger) *Registry {
	return &Registry{mode: mode, injector: injector, notes: notes, log: log}
}

// ApplyAll processes the ordered invocation lines. A failing invocation
// appends to ec.Errors and never aborts the rest of the batch.
func (r *Registry) ApplyAll(ctx context.Context, ec *Context, lines []string) {
	for _, line := range lines {
		r.apply(ctx, ec, line)
	}
}

func (r *Registry) apply(ctx context.Context, ec *Context, line string) {
	inv, err := extract.ParseInvocation(line)
	if err != nil {
		// Extraction only forwards parseable lines; reaching this means the
		// caller bypassed it. Treat as a malformed invocation.
		ec.Errors = append(ec.Errors, fmt.Sprintf("%s: not a valid invocation", line))
		return
	}
	if !extract.IsOperation(inv.Name) {
		ec.Errors = append(ec.Errors, fmt.Sprintf("%s: unknown operation %q", line, inv.Name))
		return
	}

	canonical, err := Canonicalize(inv)
	if err != nil {
		ec.Errors = append(ec.Errors, fmt.Sprintf("%s: %s", line, err))
		return
	}

	if r.mode == config.ModeDisabled {
		ec.Ignored = append(ec.Ignored, canonical)
		return
	}

	if err := r.perform(ctx, ec, inv); err != nil {
		ec.Errors = append(ec.Errors, fmt.Sprintf("%s: %s", canonical, err))
		return
	}
	ec.Executed = append(ec.Executed, canonical)
	r.log.Debug("Invocation executed.",
		zap.String("turn_id", ec.TurnID),
		zap.String("invocation", canonical),
		zap.String("mode", string(r.mode)))
}

// perform applies the side effects of one validated invocation. Logical
// mode skips OS injection but keeps the note store live, so memories carry
// across modes.
func (r *Registry) perform(ctx context.Context, ec *Context, inv extract.Invocation) error {
	effectful := r.mode == config.ModeEffectful && r.injector != nil

	switch inv.Name {
	case "click":
		if effectful {
			c := mustCoords(inv, 2)
			return r.injector.Click(ctx, c[0], c[1])
		}
	case "double_click":
		if effectful {
			c := mustCoords(inv, 2)
			return r.injector.DoubleClick(ctx, c[0], c[1])
		}
	case "right_click":
		if effectful {
			c := mustCoords(inv, 2)
			return r.injector.RightClick(ctx, c[0], c[1])
		}
	case "drag":
		if effectful {
			c := mustCoords(inv, 4)
			return r.injector.Drag(ctx, c[0], c[1], c[2], c[3])
		}
	case "write":
		if effectful {
			return r.injector.TypeText(ctx, inv.Args[0].Str)
		}
	case "remember":
		return r.notes.Append(inv.Args[0].Str)
	case "recall":
		ec.Recalled = append(ec.Recalled, r.notes.RecallText())
	}
	return nil
}

// Canonicalize validates an invocation's arity, types and ranges and
// rewrites it to the fixed textual form the audit trail records. The result
// is independent of execution mode.
func Canonicalize(inv extract.Invocation) (string, error) {
	switch inv.Name {
	case "click", "double_click", "right_click":
		c, err := coords(inv, 2)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%d, %d)", inv.Name, c[0], c[1]), nil
	case "drag":
		c, err := coords(inv, 4)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("drag(%d, %d, %d, %d)", c[0], c[1], c[2], c[3]), nil
	case "write", "remember":
		if len(inv.Args) != 1 || inv.Args[0].Kind != extract.ArgString {
			return "", typeErr("%s takes exactly one string argument", inv.Name)
		}
		return fmt.Sprintf("%s(%s)", inv.Name, strconv.Quote(inv.Args[0].Str)), nil
	case "recall":
		if len(inv.Args) != 0 {
			return "", arityErr("recall takes no arguments")
		}
		return "recall()", nil
	default:
		return "", fmt.Errorf("unknown operation %q (available: %s)", inv.Name, extract.OperationList())
	}
}

// coords checks that the invocation has exactly n integral coordinates in
// [0,1000] and returns them.
func coords(inv extract.Invocation, n int) ([]int, error) {
	if len(inv.Args) != n {
		return nil, arityErr("%s takes exactly %d coordinates", inv.Name, n)
	}
	out := make([]int, n)
	for i, a := range inv.Args {
		if a.Kind != extract.ArgNumber {
			return nil, typeErr("argument %d must be a number", i+1)
		}
		if a.Num != math.Trunc(a.Num) {
			return nil, rangeErr("argument %d is not an integer: %s", i+1, coordinateHint)
		}
		v := int(a.Num)
		if v < 0 || v > 1000 {
			return nil, rangeErr("argument %d is out of range: %s", i+1, coordinateHint)
		}
		out[i] = v
	}
	return out, nil
}

// mustCoords is coords for invocations Canonicalize already accepted.
func mustCoords(inv extract.Invocation, n int) []int {
	c, err := coords(inv, n)
	if err != nil {
		panic(fmt.Sprintf("registry: validated invocation failed re-validation: %v", err))
	}
	return c
}

// Summary renders one feedback line per outcome, executed first.
func Summary(ec *Context) []string {
	var lines []string
	for _, e := range ec.Executed {
		lines = append(lines, fmt.Sprintf("%s -> OK", e))
	}
	for _, ig := range ec.Ignored {
		lines = append(lines, fmt.Sprintf("%s -> ignored (execution disabled)", ig))
	}
	for _, er := range ec.Errors {
		lines = append(lines, fmt.Sprintf("%s -> ERROR", er))
	}
	return lines
}

// NudgeText is the feedback emitted when a narrative contained no usable
// invocation at all.
func NudgeText() string {
	return fmt.Sprintf("No actions found in your story. You can use: %s.",
		extract.OperationList())
}
