package main

import (
	"fmt"
	"text/tabwriter"

	"tokyo-valuation-api/internal/models"

	"github.com/spf13/cobra"
)

func newRankCmd(opts *rootOptions) *cobra.Command {
	var (
		req   models.RankingRequest
		order string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank every location by estimated price",
		Long: `Rank values the same property in every known location and prints the
top entries by price.

Example:
  valuer rank --size 60 --built-year 2010 --walk 5
  valuer rank --size 60 --built-year 2010 --walk 5 --order asc --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Order, err = models.ParseOrder(order); err != nil {
				return err
			}

			svc, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entries, err := svc.Rank(cmd.Context(), req)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "RANK\tLOCATION\tPRICE\tUNIT PRICE\t")
			for i, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t\n", i+1, e.LocationKey, e.PredictedPrice, e.UnitPrice)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64Var(&req.Size, "size", 0, "floor area in square metres")
	cmd.Flags().IntVar(&req.BuiltYear, "built-year", 0, "year of construction")
	cmd.Flags().IntVar(&req.WalkMinutes, "walk", 0, "walking minutes to the nearest station")
	cmd.Flags().StringVar(&order, "order", "desc", "sort order by price: asc or desc")
	cmd.Flags().IntVar(&req.Limit, "limit", 10, "maximum number of entries")
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("built-year")
	return cmd
}
