package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	cfgpkg "github.com/KaramelBytes/moltools-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set MolTools configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_dir: %s\n", c.DataDir)
		fmt.Fprintf(out, "default_tier: %d (%s)\n", c.DefaultTier, catalog.Tier(c.DefaultTier))
		fmt.Fprintf(out, "hartree_to_kcal: %g\n", c.HartreeToKcal)
		fmt.Fprintf(out, "ci_z: %g\n", c.CIZ)
		fmt.Fprintf(out, "projects_dir: %s\n", c.ProjectsDir)
		fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_dir":
			cfg.DataDir = val
		case "default_tier":
			t, err := catalog.ParseTier(val)
			if err != nil {
				return err
			}
			cfg.DefaultTier = int(t)
		case "hartree_to_kcal":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for hartree_to_kcal: %v", val)
			}
			cfg.HartreeToKcal = f
		case "ci_z":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for ci_z: %v", val)
			}
			cfg.CIZ = f
		case "projects_dir":
			cfg.ProjectsDir = val
		case "output_format":
			switch val {
			case "text", "markdown", "json":
				cfg.OutputFormat = val
			default:
				return fmt.Errorf("invalid output_format: %s (use text|markdown|json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
