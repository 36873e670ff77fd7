package cmd

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/moltools-cli/internal/analysis"
	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	"github.com/KaramelBytes/moltools-cli/internal/compare"
	"github.com/KaramelBytes/moltools-cli/internal/datastore"
	"github.com/KaramelBytes/moltools-cli/internal/menu"
	"github.com/KaramelBytes/moltools-cli/internal/project"
	"github.com/KaramelBytes/moltools-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cmpTier   string
	cmpMetric string
	cmpStudy  string
	cmpFormat string
	cmpOutput string
	cmpMenu   bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare method/basis combinations against the tier reference",
	Long: `Compare every method/basis combination of a tier against its reference
(the last combination of the tier) and print summary statistics.

Metrics:
  rotational   relative differences of rotational constants (X, Y, Z stacked)
  atomization  atomization energy differences in kcal/mol
  isomer       isomer energy differences in kcal/mol
  all          all three, in that order (default)

Without --tier the tier is chosen from a menu when stdin is a terminal (or
--menu is given), otherwise default_tier from the config is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		errW := cmd.ErrOrStderr()
		warn := warnf(errW)

		metrics, err := compare.ParseMetrics(cmpMetric)
		if err != nil {
			return err
		}
		format := strings.ToLower(strings.TrimSpace(cmpFormat))
		if format == "" {
			format = c.OutputFormat
		}
		if format == "md" {
			format = "markdown"
		}
		switch format {
		case "text", "markdown", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use text|markdown|json)", cmpFormat)
		}

		index, err := resolveTierIndex(cmd, c.DefaultTier)
		if err != nil {
			return err
		}
		cat := catalog.New(index, warn)

		var study *project.Study
		if cmpStudy != "" {
			dir, err := studyDir(cmpStudy)
			if err != nil {
				return err
			}
			if study, err = project.LoadStudy(dir); err != nil {
				return fmt.Errorf("%w (run 'moltools init %s' first)", err, cmpStudy)
			}
		}

		dataDir := c.DataDir
		if study != nil && study.DataDir != "" && flagDataDir == "" {
			dataDir = study.DataDir
		}
		store, err := datastore.Open(dataDir)
		if err != nil {
			return fmt.Errorf("open dataset: %w", err)
		}
		engine := compare.NewEngine(store, compare.Options{
			HartreeToKcal: c.HartreeToKcal,
			Z:             c.CIZ,
			Warn:          warn,
			Debug:         debugf(errW),
		})

		var out bytes.Buffer
		var runs []*project.Run
		for _, m := range metrics {
			sum, err := engine.Summary(cmd.Context(), cat, m)
			if err != nil {
				return err
			}
			rendered, err := render(sum, format)
			if err != nil {
				return err
			}
			out.Write(rendered)
			if study != nil {
				r, err := study.RecordRun(cat.Name(), string(m), format, sum.Rows, rendered)
				if err != nil {
					return err
				}
				runs = append(runs, r)
			}
		}

		if cmpOutput != "" {
			if err := utils.SafeWriteFile(cmpOutput, out.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written: %s\n", cmpOutput)
		} else if _, err := cmd.OutOrStdout().Write(out.Bytes()); err != nil {
			return err
		}

		if study != nil {
			if err := study.Save(); err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(errW, "✓ Recorded %s run %s in study %s\n", r.Metric, r.ID, study.Name)
			}
		}
		return nil
	},
}

// resolveTierIndex reads --tier as a name or a raw index; raw indexes are
// passed through so out-of-range values fall back with a warning.
func resolveTierIndex(cmd *cobra.Command, fallback int) (int, error) {
	v := strings.TrimSpace(cmpTier)
	if v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i, nil
		}
		t, err := catalog.ParseTier(v)
		if err != nil {
			return 0, err
		}
		return int(t), nil
	}
	in := cmd.InOrStdin()
	if cmpMenu || menu.IsTerminal(in) {
		t, err := menu.ChooseTier(in, cmd.ErrOrStderr(), warnf(cmd.ErrOrStderr()))
		if err != nil {
			return 0, err
		}
		return int(t), nil
	}
	return fallback, nil
}

func render(sum *analysis.Summary, format string) ([]byte, error) {
	switch format {
	case "markdown":
		return []byte(sum.Markdown() + "\n"), nil
	case "json":
		b, err := sum.JSON()
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return []byte(sum.Text()), nil
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVarP(&cmpTier, "tier", "t", "", "tier name (nano|small|medium|large|macro) or index 0-4")
	compareCmd.Flags().StringVarP(&cmpMetric, "metric", "m", "all", "metric: rotational|atomization|isomer|all")
	compareCmd.Flags().StringVarP(&cmpStudy, "study", "s", "", "record the reports as runs of this study")
	compareCmd.Flags().StringVarP(&cmpFormat, "format", "f", "", "output format: text|markdown|json (default from config)")
	compareCmd.Flags().StringVarP(&cmpOutput, "output", "o", "", "write the report to a file instead of stdout")
	compareCmd.Flags().BoolVar(&cmpMenu, "menu", false, "choose the tier from a menu read on stdin")
}
