package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"callscribe/internal/api"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the category catalog",
	}
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	return catalogCmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var catalogPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List subcategories in prompt order with their main category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, path, err := ctx.loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, api.FromCatalog(catalog))
			}

			entries := catalog.Entries()
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{strconv.Itoa(i + 1), entry.Sub, entry.Main})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog: %s (%d subcategories)\n", path, catalog.Len())
			fmt.Fprintln(out, renderTable([]column{
				{header: "#", align: alignRight},
				{header: "Subcategory", maxWidth: 48},
				{header: "Main category", maxWidth: 48},
			}, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Category catalog CSV (overrides catalog.path)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}
