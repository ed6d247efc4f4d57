package main

import (
	"fmt"

	"tokyo-valuation-api/internal/models"

	"github.com/spf13/cobra"
)

func newEstimateCmd(opts *rootOptions) *cobra.Command {
	var req models.ValuationRequest

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the price of one property",
		Long: `Estimate resolves the location, builds the feature vector and prints
the predicted price together with the inputs that produced it.

Example:
  valuer estimate --ward 新宿区 --town 西新宿 --size 60 --built-year 2010 --walk 5
  valuer estimate --town-key 港区赤坂 --size 45 --built-year 2020 --walk 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.Valuate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Location:        %s (score %.0f)\n", result.LocationKey, result.LocationScore)
			fmt.Fprintf(out, "Size:            %g m2\n", result.Size)
			fmt.Fprintf(out, "Age:             %d years\n", result.Age)
			fmt.Fprintf(out, "Walk:            %d min\n", result.WalkMinutes)
			fmt.Fprintf(out, "Predicted price: %d yen\n", result.PredictedPrice)
			fmt.Fprintf(out, "Unit price:      %d yen/m2\n", result.UnitPrice)
			if result.Implausible {
				fmt.Fprintln(out, "Warning: the model returned a non-positive price")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Ward, "ward", "", "ward name, e.g. 新宿区")
	cmd.Flags().StringVar(&req.Town, "town", "", "town name within the ward")
	cmd.Flags().StringVar(&req.TownKey, "town-key", "", "full location key, instead of --ward and --town")
	cmd.Flags().Float64Var(&req.Size, "size", 0, "floor area in square metres")
	cmd.Flags().IntVar(&req.BuiltYear, "built-year", 0, "year of construction")
	cmd.Flags().IntVar(&req.WalkMinutes, "walk", 0, "walking minutes to the nearest station")
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("built-year")
	cmd.MarkFlagsOneRequired("town", "town-key")
	cmd.MarkFlagsMutuallyExclusive("town", "town-key")
	return cmd
}
