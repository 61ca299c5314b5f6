package cmd

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/marionette/api/schemas"
	"github.com/xkilldash9x/marionette/internal/observability"
	"github.com/xkilldash9x/marionette/internal/turn"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newTurnCommand runs one full turn: a TurnRequest document on stdin, a
// TurnResponse document on stdout. Logs go to stderr so stdout stays a
// clean JSON channel.
func newTurnCommand() *cobra.Command {
	var inProcess bool

	turnCmd := &cobra.Command{
		Use:   "turn",
		Short: "Execute one turn from a JSON request on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCommand(cmd)
			if err := ensureRunDir(cfg); err != nil {
				return err
			}
			log := observability.GetLogger()

			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			var req schemas.TurnRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("decode request: %w", err)
			}

			capture := turn.SubprocessCapture(cfg, log)
			if inProcess {
				capture = turn.InProcessCapture(cfg, log)
			}

			res := turn.NewRunner(cfg, log, capture).Run(cmd.Context(), req)

			out, err := json.Marshal(res)
			if err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	turnCmd.Flags().BoolVar(&inProcess, "in-process", false, "produce the frame in this process instead of a capture subprocess")
	return turnCmd
}
