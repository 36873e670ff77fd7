package cmd

import (
	"fmt"
	"io"
	"os"

	cfgpkg "github.com/KaramelBytes/moltools-cli/internal/config"
	"github.com/KaramelBytes/moltools-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	debug       bool
	flagDataDir string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "moltools",
	Short: "MolTools CLI: benchmark quantum chemistry methods against a reference",
	Long: `MolTools compares rotational constants, atomization energies, and isomer
energies computed with different method/basis combinations against the
highest-level combination of a tier, and reports mean, standard deviation,
skewness, and 95% confidence intervals of the differences.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.moltools/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "dataset directory (overrides config data_dir)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to activeConfig's error
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// activeConfig returns the loaded configuration with flag overrides applied,
// loading it on first use when OnInitialize did not run.
func activeConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if flagDataDir != "" {
		dir, err := utils.ExpandHome(flagDataDir)
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

func warnf(w io.Writer) func(format string, args ...any) {
	return func(format string, args ...any) {
		fmt.Fprintf(w, "⚠ Warning: "+format+"\n", args...)
	}
}

// debugf is nil unless --debug is set.
func debugf(w io.Writer) func(format string, args ...any) {
	if !debug {
		return nil
	}
	return func(format string, args ...any) {
		fmt.Fprintf(w, "[debug] "+format+"\n", args...)
	}
}
