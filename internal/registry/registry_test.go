package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/internal/config"
	"github.com/xkilldash9x/marionette/internal/extract"
	"github.com/xkilldash9x/marionette/internal/input"
)

func newTestRegistry(t *testing.T, mode config.Mode) (*Registry, *input.Simulated) {
	t.Helper()
	inj := input.NewSimulated()
	notes := NewNoteStore(t.TempDir(), zap.NewNop())
	return New(mode, inj, notes, zap.NewNop()), inj
}

func TestApplyAll_LogicalExecutesWithoutInjection(t *testing.T) {
	r, inj := newTestRegistry(t, config.ModeLogical)
	ec := NewContext()

	r.ApplyAll(context.Background(), ec, []string{"click(500,500)", "drag(0, 0, 1000, 1000)"})

	assert.Equal(t, []string{"click(500, 500)", "drag(0, 0, 1000, 1000)"}, ec.Executed)
	assert.Empty(t, ec.Errors)
	assert.Empty(t, ec.Ignored)
	assert.Empty(t, inj.Calls())
}

func TestApplyAll_EffectfulDrivesInjector(t *testing.T) {
	r, inj := newTestRegistry(t, config.ModeEffectful)
	ec := NewContext()

	r.ApplyAll(context.Background(), ec, []string{
		"click(100, 200)",
		"double_click(300, 400)",
		"right_click(500, 600)",
		"drag(0, 0, 999, 999)",
		`write("hello")`,
	})

	require.Len(t, ec.Executed, 5)
	assert.Equal(t, []string{
		"click 100 200",
		"double_click 300 400",
		"right_click 500 600",
		"drag 0 0 999 999",
		`type "hello"`,
	}, inj.Calls())
}

func TestApplyAll_DisabledRecordsIgnored(t *testing.T) {
	r, inj := newTestRegistry(t, config.ModeDisabled)
	ec := NewContext()

	r.ApplyAll(context.Background(), ec, []string{"click(1, 2)", `remember("x")`})

	assert.Empty(t, ec.Executed)
	assert.Equal(t, []string{"click(1, 2)", `remember("x")`}, ec.Ignored)
	assert.Empty(t, inj.Calls())
	// Disabled mode never touches the note store.
	assert.Empty(t, r.notes.All())
}

func TestApplyAll_RangeErrorSkipsOnlyThatInvocation(t *testing.T) {
	r, _ := newTestRegistry(t, config.ModeLogical)
	ec := NewContext()

	r.ApplyAll(context.Background(), ec, []string{
		"click(2000, 500)",
		"click(500, 500)",
	})

	assert.Equal(t, []string{"click(500, 500)"}, ec.Executed)
	require.Len(t, ec.Errors, 1)
	assert.Contains(t, ec.Errors[0], "0-1000")
}

func TestApplyAll_TypeError(t *testing.T) {
	r, _ := newTestRegistry(t, config.ModeLogical)
	ec := NewContext()

	r.ApplyAll(context.Background(), ec, []string{`click("a", "b")`, "write(42)"})

	assert.Empty(t, ec.Executed)
	require.Len(t, ec.Errors, 2)
	assert.Contains(t, ec.Errors[0], "must be a number")
	assert.Contains(t, ec.Errors[1], "string argument")
}

func TestApplyAll_NonIntegralCoordinateRejected(t *testing.T) {
	r, _ := newTestRegistry(t, config.ModeLogical)
	ec := NewContext()

	r.ApplyAll(context.Background(), ec, []string{"click(500.5, 500)"})

	assert.Empty(t, ec.Executed)
	require.Len(t, ec.Errors, 1)
	assert.Contains(t, ec.Errors[0], "0-1000")
}

func TestRememberAndRecall_PersistAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	notes := NewNoteStore(dir, zap.NewNop())
	r := New(config.ModeLogical, nil, notes, zap.NewNop())

	ec := NewContext()
	r.ApplyAll(context.Background(), ec, []string{
		`remember("first fact")`,
		`remember("second fact")`,
	})
	require.Len(t, ec.Executed, 2)

	// Fresh registry over the same run directory sees the notes.
	r2 := New(config.ModeLogical, nil, NewNoteStore(dir, zap.NewNop()), zap.NewNop())
	ec2 := NewContext()
	r2.ApplyAll(context.Background(), ec2, []string{"recall()"})

	require.Len(t, ec2.Recalled, 1)
	assert.Equal(t, "- first fact\n- second fact", ec2.Recalled[0])
}

func TestRecall_EmptySentinel(t *testing.T) {
	r, _ := newTestRegistry(t, config.ModeLogical)
	ec := NewContext()
	r.ApplyAll(context.Background(), ec, []string{"recall()"})
	require.Len(t, ec.Recalled, 1)
	assert.Equal(t, EmptyRecall, ec.Recalled[0])
}

func TestCanonicalize_RoundTripsThroughExtraction(t *testing.T) {
	inputs := []string{
		"click( 500 ,500 )",
		"drag(0,0,1000,1000)",
		`write('single quoted')`,
		`remember("keep this")`,
		"recall()",
	}
	for _, in := range inputs {
		inv, err := extract.ParseInvocation(in)
		require.NoError(t, err, in)
		canonical, err := Canonicalize(inv)
		require.NoError(t, err, in)

		// The canonical form is itself a valid, extractable invocation that
		// canonicalizes to itself.
		got := extract.Extract("prose before\n" + canonical + "\nprose after")
		require.Equal(t, []string{canonical}, got, in)
		inv2, err := extract.ParseInvocation(canonical)
		require.NoError(t, err, in)
		again, err := Canonicalize(inv2)
		require.NoError(t, err, in)
		assert.Equal(t, canonical, again, in)
	}
}

func TestValidationErrorKinds(t *testing.T) {
	tests := []struct {
		line string
		kind ErrorKind
	}{
		{"click(2000, 0)", ErrRange},
		{"click(1.5, 0)", ErrRange},
		{`click("a", 0)`, ErrType},
		{"write(42)", ErrType},
		{"click(1)", ErrArity},
		{"recall(1)", ErrArity},
	}
	for _, tc := range tests {
		inv, err := extract.ParseInvocation(tc.line)
		require.NoError(t, err, tc.line)
		_, err = Canonicalize(inv)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, tc.line)
		assert.Equal(t, tc.kind, verr.Kind, tc.line)
	}
}

func TestSummary(t *testing.T) {
	ec := &Context{
		Executed: []string{"click(1, 2)"},
		Ignored:  []string{"recall()"},
		Errors:   []string{"click(2000, 2): argument 1 is out of range: coordinates must be integers in the range 0-1000"},
	}
	lines := Summary(ec)
	require.Len(t, lines, 3)
	assert.Equal(t, "click(1, 2) -> OK", lines[0])
	assert.Contains(t, lines[1], "ignored")
	assert.Contains(t, lines[2], "ERROR")
}

func TestNudgeText_NamesEveryOperation(t *testing.T) {
	text := NudgeText()
	for _, op := range extract.Operations {
		assert.Contains(t, text, op)
	}
}
