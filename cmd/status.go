package cmd

import (
	"fmt"

	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	"github.com/KaramelBytes/moltools-cli/internal/compare"
	"github.com/KaramelBytes/moltools-cli/internal/datastore"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many calculations the dataset holds per molecule group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		store, err := datastore.Open(c.DataDir)
		if err != nil {
			return fmt.Errorf("open dataset: %w", err)
		}
		engine := compare.NewEngine(store, compare.Options{Warn: warnf(cmd.ErrOrStderr())})
		out := cmd.OutOrStdout()
		name := store.Manifest().Name
		if name == "" {
			name = store.Dir()
		}
		fmt.Fprintf(out, "Dataset: %s\n", name)

		shown := 0
		for _, t := range catalog.Tiers() {
			table, err := engine.Coverage(cmd.Context(), t.String())
			if err != nil {
				return err
			}
			if table.Empty() {
				continue
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, table.Text())
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "(no calculations)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
