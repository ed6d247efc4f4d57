package main

import (
	"fmt"
	"os"

	"tokyo-valuation-api/internal/app"
	"tokyo-valuation-api/internal/artifact"

	"github.com/spf13/cobra"
)

func newSplitCmd(opts *rootOptions) *cobra.Command {
	var (
		outDir string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "split <model-file>",
		Short: "Split a serialized model into chunk files",
		Long: `Split writes <name>_part<i>.<ext> chunks for a serialized model, using
MODEL_NAME, MODEL_CHUNK_EXT and MODEL_CHUNK_COUNT from the configuration.
Concatenating the chunks in index order restores the original file.

Example:
  valuer split build/tokyo_price_v1.bin
  valuer split build/tokyo_price_v1.bin --count 8 --out artifacts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read model: %w", err)
			}

			set := app.ChunkSet(cfg)
			if outDir != "" {
				set.Dir = outDir
			}
			if count > 0 {
				set.Count = count
			}

			if err := artifact.NewOSStore(logger).SplitModel(data, set); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chunks of %s to %s\n", set.Count, set.Name, set.Dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default MODEL_DIR)")
	cmd.Flags().IntVar(&count, "count", 0, "number of chunks (default MODEL_CHUNK_COUNT)")
	return cmd
}
