package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/internal/observability"
	"github.com/xkilldash9x/marionette/internal/overlay"
	"github.com/xkilldash9x/marionette/internal/statesync"
)

// newOverlayCommand runs the long-lived overlay renderer until the
// process is signaled or the surface is destroyed.
func newOverlayCommand() *cobra.Command {
	var blockInput bool

	overlayCmd := &cobra.Command{
		Use:   "overlay",
		Short: "Run the persistent mark overlay over the desktop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCommand(cmd)
			if err := ensureRunDir(cfg); err != nil {
				return err
			}
			if blockInput {
				cfg.Overlay.BlockInput = true
			}
			log := observability.GetLogger()

			surface, err := overlay.NewPlatformSurface(cfg.Overlay.BlockInput)
			if err != nil {
				return err
			}

			notifier, err := statesync.NewEventNotifier(cfg.Overlay.EventName)
			if err != nil {
				return err
			}
			defer notifier.Close()

			store := statesync.NewStore(cfg.RunDir, log)
			log.Info("Overlay starting.",
				zap.String("run_dir", cfg.RunDir),
				zap.Bool("block_input", cfg.Overlay.BlockInput),
				zap.Duration("poll_interval", cfg.Overlay.PollInterval))

			runner := overlay.NewRunner(store, notifier, surface, cfg.Overlay.PollInterval, log)
			return runner.Run(cmd.Context())
		},
	}

	overlayCmd.Flags().BoolVar(&blockInput, "block-input", false, "swallow input under the overlay instead of passing it through")
	return overlayCmd
}
