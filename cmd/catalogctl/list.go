package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront-backend/pkg/container"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List published products, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := container.NewContainer()
		if err != nil {
			return err
		}
		defer c.Cleanup()

		products, err := c.CatalogService.ListPublished(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tCREATED")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}
