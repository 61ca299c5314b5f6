package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/marionette/api/schemas"
)

// runCommand executes a fresh command tree with the given stdin and args
// and returns stdout.
func runCommand(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	root := NewRootCommand()
	root.SetIn(strings.NewReader(stdin))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestTurnCommand_EndToEnd(t *testing.T) {
	runDir := t.TempDir()
	req, err := json.Marshal(schemas.TurnRequest{
		Raw:    "click(500, 500)\nGoing for the center.",
		RunDir: runDir,
	})
	require.NoError(t, err)

	out := runCommand(t, string(req), "turn", "--in-process", "--run-dir", runDir)

	var res schemas.TurnResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"click(500, 500)"}, res.Executed)
	assert.NotEmpty(t, res.ScreenshotB64)
	assert.Contains(t, res.Feedback, "click(500, 500) -> OK")
}

func TestCaptureCommand_EndToEnd(t *testing.T) {
	runDir := t.TempDir()
	req, err := json.Marshal(schemas.FrameRequest{
		Actions: []string{"click(100, 100)"},
		RunDir:  runDir,
	})
	require.NoError(t, err)

	out := runCommand(t, string(req), "capture", "--run-dir", runDir)

	var res schemas.FrameResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Empty(t, res.Error)
	assert.NotEmpty(t, res.ScreenshotB64)
	assert.Equal(t, []string{"click(100, 100)"}, res.Applied)
}

func TestTurnCommand_RejectsBadJSON(t *testing.T) {
	root := NewRootCommand()
	root.SetIn(strings.NewReader("{not json"))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"turn", "--in-process", "--run-dir", t.TempDir()})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestVersionFlag(t *testing.T) {
	out := runCommand(t, "", "--version")
	assert.Equal(t, Version+"\n", out)
}
