package main

import (
	"context"
	"os"

	"tokyo-valuation-api/internal/app"
	"tokyo-valuation-api/internal/artifact"
	"tokyo-valuation-api/internal/config"
	"tokyo-valuation-api/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configDir string
}

// newRootCmd builds the valuer command tree
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "valuer",
		Short: "Offline valuation tool for Tokyo 23-ward properties",
		Long: `valuer runs the valuation core without the HTTP server.

It reads the same configuration as the API (configs/app.env and environment
variables), loads the score table and the chunked model, and prints estimates,
rankings and town listings. It can also split a serialized model into chunks.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs", "directory containing app.env")

	cmd.AddCommand(
		newEstimateCmd(opts),
		newRankCmd(opts),
		newTownsCmd(opts),
		newSplitCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

// openService loads configuration and artifacts. The caller must call the
// returned close function.
func (o *rootOptions) openService(ctx context.Context) (*service.ValuationService, func(), error) {
	cfg, logger, err := o.load()
	if err != nil {
		return nil, func() {}, err
	}
	return app.Open(ctx, cfg, artifact.NewOSStore(logger), logger)
}
