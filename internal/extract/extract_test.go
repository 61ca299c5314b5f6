package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_BareInvocationWithProse(t *testing.T) {
	raw := "click(500, 500)\nI will click the center."
	got := Extract(raw)
	assert.Equal(t, []string{"click(500, 500)"}, got)
}

func TestExtract_FencedBlockPreferred(t *testing.T) {
	raw := "Let me drag across the screen.\n```python\ndrag(0,0,1000,1000)\n```\nDone."
	got := Extract(raw)
	assert.Equal(t, []string{"drag(0,0,1000,1000)"}, got)
}

func TestExtract_FencedAndBareLinesBothScanned(t *testing.T) {
	raw := "write(\"hello\")\n```\nclick(10, 20)\n```"
	got := Extract(raw)
	// Fenced content is scanned first, then the full raw text.
	assert.Equal(t, []string{"click(10, 20)", "write(\"hello\")"}, got)
}

func TestExtract_DeduplicatesPreservingFirstSeenOrder(t *testing.T) {
	raw := "click(1, 2)\nsome narrative\nclick(1, 2)\nright_click(3, 4)"
	got := Extract(raw)
	assert.Equal(t, []string{"click(1, 2)", "right_click(3, 4)"}, got)
}

func TestExtract_DropsNonWhitelistedCalls(t *testing.T) {
	raw := "launch_missiles(1)\nos.system('x')\nclick(5, 5)"
	got := Extract(raw)
	assert.Equal(t, []string{"click(5, 5)"}, got)
}

func TestExtract_NeverFailsOnGarbage(t *testing.T) {
	for _, raw := range []string{
		"", "```", "```\n", "click(", "click(1,", ")(", "((((",
		"click(1, 2) trailing", "1000", "\"unterminated",
	} {
		assert.NotPanics(t, func() { Extract(raw) }, "input %q", raw)
	}
	assert.Empty(t, Extract("click(1, 2) trailing"))
}

func TestExtract_AcceptsOutOfRangeCoordinates(t *testing.T) {
	// The grammar is satisfied; range enforcement belongs to the registry.
	got := Extract("click(2000, 500)")
	assert.Equal(t, []string{"click(2000, 500)"}, got)
}

func TestParseInvocation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOp  string
		wantLen int
		wantErr bool
	}{
		{"simple", "click(500, 500)", "click", 2, false},
		{"no spaces", "drag(0,0,1000,1000)", "drag", 4, false},
		{"double quoted", `write("hello world")`, "write", 1, false},
		{"single quoted", "write('hi')", "write", 1, false},
		{"escaped quote", `write("say \"hi\"")`, "write", 1, false},
		{"zero args", "recall()", "recall", 0, false},
		{"negative number", "click(-5, 10)", "click", 2, false},
		{"float", "click(12.5, 80)", "click", 2, false},
		{"unknown name parses", "explode(1)", "explode", 1, false},
		{"prose", "I will click now.", "", 0, true},
		{"trailing content", "click(1, 2) ok", "", 0, true},
		{"unterminated", "click(1, 2", "", 0, true},
		{"nested call", "click(f(1), 2)", "", 0, true},
		{"keyword arg", "click(x=1, y=2)", "", 0, true},
		{"bare ident arg", "click(x, y)", "", 0, true},
		{"empty", "", "", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv, err := ParseInvocation(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOp, inv.Name)
			assert.Len(t, inv.Args, tc.wantLen)
		})
	}
}

func TestParseInvocation_StringEscapes(t *testing.T) {
	inv, err := ParseInvocation(`write("line\nnext\tend")`)
	require.NoError(t, err)
	require.Len(t, inv.Args, 1)
	assert.Equal(t, ArgString, inv.Args[0].Kind)
	assert.Equal(t, "line\nnext\tend", inv.Args[0].Str)
}

func TestIsOperation(t *testing.T) {
	for _, op := range Operations {
		assert.True(t, IsOperation(op))
	}
	assert.False(t, IsOperation("help"))
	assert.False(t, IsOperation("os"))
}
