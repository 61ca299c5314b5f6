package schemas

// -- Turn Documents --

// TurnRequest is the input document for one full turn of the pipeline.
// Raw is the narrative text the model produced; RunDir is the directory
// that holds all per-run persisted state.
type TurnRequest struct {
	Raw    string `json:"raw"`
	RunDir string `json:"run_dir"`
}

// TurnResponse is the canonical record of what a turn did and did not do.
// Executed, Ignored and Malformed together form the execution audit trail;
// Feedback is the human/model readable summary the outer loop feeds back.
type TurnResponse struct {
	Executed      []string `json:"executed"`
	ExtractedCode []string `json:"extracted_code"`
	Malformed     []string `json:"malformed"`
	Ignored       []string `json:"ignored"`
	ScreenshotB64 string   `json:"screenshot_b64"`
	Feedback      string   `json:"feedback"`
}

// -- Frame Documents --

// FrameRequest asks the capture side for one visual frame. Actions are the
// canonical invocation strings executed this turn; they drive mark and
// cursor state updates before the frame is produced.
type FrameRequest struct {
	Actions []string `json:"actions"`
	RunDir  string   `json:"run_dir"`
}

// FrameResponse carries the produced frame. ScreenshotB64 is empty when
// capture failed; Error then holds a diagnostic. Applied echoes the actions
// that were reflected in the frame.
type FrameResponse struct {
	ScreenshotB64 string   `json:"screenshot_b64"`
	Applied       []string `json:"applied"`
	Error         string   `json:"error,omitempty"`
}
