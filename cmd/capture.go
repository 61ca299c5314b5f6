package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/marionette/api/schemas"
	"github.com/xkilldash9x/marionette/internal/observability"
	"github.com/xkilldash9x/marionette/internal/turn"
)

// newCaptureCommand is the subordinate capture process entry point: a
// FrameRequest on stdin, a FrameResponse on stdout. It never exits
// non-zero for a capture failure; the failure travels in the document.
func newCaptureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "capture",
		Short: "Produce one frame from a JSON request on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCommand(cmd)
			log := observability.GetLogger()

			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			var req schemas.FrameRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("decode request: %w", err)
			}
			if req.RunDir == "" {
				req.RunDir = cfg.RunDir
			}
			if err := ensureRunDir(cfg); err != nil {
				return err
			}

			res := turn.InProcessCapture(cfg, log)(cmd.Context(), req)

			out, err := json.Marshal(res)
			if err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
