package cmd

import (
	"fmt"

	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	"github.com/spf13/cobra"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List tiers with their method/basis combinations and reference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, t := range catalog.Tiers() {
			c := catalog.ForTier(t)
			fmt.Fprintf(out, "%d %s (%d method(s) x %d basis set(s))\n", int(t), t, c.MethodCount(), c.BasisCount())
			for _, d := range c.Display() {
				fmt.Fprintf(out, "  - %s\n", d)
			}
			fmt.Fprintf(out, "  reference: %s\n", catalog.DisplayKey(c.ReferenceKey()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tiersCmd)
}
