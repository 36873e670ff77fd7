package cmd

import (
	"fmt"

	"github.com/KaramelBytes/moltools-cli/internal/project"
	"github.com/spf13/cobra"
)

var (
	listStudies   bool
	listRuns      bool
	listStudyName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List studies or the runs of a study",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listStudies == listRuns { // either both true or both false
			return fmt.Errorf("specify exactly one of --studies or --runs")
		}
		out := cmd.OutOrStdout()
		if listStudies {
			root, err := studiesRoot()
			if err != nil {
				return err
			}
			names, err := project.ListStudies(root)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "(no studies)")
				return nil
			}
			for _, n := range names {
				fmt.Fprintf(out, "- %s\n", n)
			}
			return nil
		}
		if listStudyName == "" {
			return fmt.Errorf("--study is required when using --runs")
		}
		dir, err := studyDir(listStudyName)
		if err != nil {
			return err
		}
		s, err := project.LoadStudy(dir)
		if err != nil {
			return err
		}
		runs := s.SortedRuns()
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "- %s: %s %s (%d rows, %s) %s\n",
				r.ID, r.Metric, r.Tier, r.Rows, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Report)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listStudies, "studies", false, "list studies")
	listCmd.Flags().BoolVar(&listRuns, "runs", false, "list runs of a study")
	listCmd.Flags().StringVarP(&listStudyName, "study", "s", "", "study name for --runs")
}
