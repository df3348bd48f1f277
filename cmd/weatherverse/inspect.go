package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newAnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Print the stored analytics summary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, recs, backend, err := openRecords(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			a, err := recs.Analytics(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the most recent observations as JSON, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, recs, backend, err := openRecords(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			history, err := recs.Observations(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(history) > limit {
				history = history[:limit]
			}
			return printJSON(cmd.OutOrStdout(), history)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of observations to print (0 for all)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
