// Package cmd wires the marionette commands. The binary is its own
// subordinate process: the turn command re-invokes it with the capture
// command, and the overlay command is the long-lived renderer.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/marionette/internal/config"
	"github.com/xkilldash9x/marionette/internal/observability"
)

// NewRootCommand builds a fresh command tree. Each invocation gets its own
// instance so flag state never leaks between executions.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "marionette",
		Short:         "Marionette is the perception-action core of a desktop automation agent.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				// Fallback logger so the failure itself is visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "marionette"})
				return err
			}
			observability.InitializeLogger(cfg.Logger)
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("run-dir", "", "directory holding per-run persisted state")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newTurnCommand())
	rootCmd.AddCommand(newCaptureCommand())
	rootCmd.AddCommand(newOverlayCommand())
	return rootCmd
}

// Execute runs the command tree under ctx.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		return err
	}
	return nil
}

// loadConfig reads the config file (when present), environment variables
// and flag overrides into a validated Config.
func loadConfig(cfgFile string) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("MARIONETTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars carry it.
	}
	return config.NewConfigFromViper(v)
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromCommand returns the config installed by PersistentPreRunE,
// with the run-dir flag applied on top.
func configFromCommand(cmd *cobra.Command) *config.Config {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		cfg = config.NewDefaultConfig()
	}
	if runDir, err := cmd.Flags().GetString("run-dir"); err == nil && runDir != "" {
		cfg.RunDir = runDir
	}
	return cfg
}

// ensureRunDir creates the run directory; this is one of the few fatal
// startup conditions.
func ensureRunDir(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.RunDir, 0o755); err != nil {
		return fmt.Errorf("create run directory %q: %w", cfg.RunDir, err)
	}
	return nil
}
