package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTownsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "towns [ward]",
		Short: "List wards, or the towns of one ward",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, w := range svc.Wards(cmd.Context()) {
					fmt.Fprintln(out, w)
				}
				return nil
			}

			listing, err := svc.Towns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if listing.Fallback {
				fmt.Fprintf(out, "No location in %s, listing every location\n", listing.Ward)
			}
			for _, t := range listing.Towns {
				marker := " "
				if t.Display == listing.Default {
					marker = "*"
				}
				suffix := ""
				if t.Ambiguous {
					suffix = " (ambiguous)"
				}
				fmt.Fprintf(out, "%s %s\t%s%s\n", marker, t.Display, t.Key, suffix)
			}
			return nil
		},
	}
}
