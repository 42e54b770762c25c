package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"distill/internal/store"
	"distill/internal/textutil"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(st *store.Store) error {
				entries, err := st.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No articles generated yet.")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						textutil.ShortID(entry.ContentID),
						entry.Title,
						string(entry.Style),
						string(entry.Format),
						string(entry.Kind),
						entry.CreatedAt.Format("2006-01-02"),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Style", "Format", "Type", "Date"}, rows))
				fmt.Fprintln(out, "Rebuild any entry with: distill regenerate <id>")
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}
