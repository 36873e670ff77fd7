package cmd

import (
	"fmt"

	"github.com/KaramelBytes/moltools-cli/internal/project"
	"github.com/KaramelBytes/moltools-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	smStudy string
	smClear bool
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Manage per-study settings",
}

var studyShowCmd = &cobra.Command{
	Use:   "show <study>",
	Short: "Show a study's settings and run count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := studyDir(args[0])
		if err != nil {
			return err
		}
		s, err := project.LoadStudy(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name: %s\n", s.Name)
		if s.Description != "" {
			fmt.Fprintf(out, "description: %s\n", s.Description)
		}
		if s.DataDir != "" {
			fmt.Fprintf(out, "data_dir: %s\n", s.DataDir)
		} else {
			fmt.Fprintln(out, "data_dir: (config default)")
		}
		fmt.Fprintf(out, "runs: %d\n", len(s.Runs))
		fmt.Fprintf(out, "created: %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var studySetDataCmd = &cobra.Command{
	Use:   "set-data <dir>",
	Short: "Set or clear a study's dataset directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if smStudy == "" {
			return fmt.Errorf("--study is required")
		}
		dir, err := studyDir(smStudy)
		if err != nil {
			return err
		}
		s, err := project.LoadStudy(dir)
		if err != nil {
			return err
		}
		if smClear {
			s.DataDir = ""
		} else {
			if len(args) == 0 || args[0] == "" {
				return fmt.Errorf("dataset directory is required unless --clear is set")
			}
			if s.DataDir, err = utils.ExpandHome(args[0]); err != nil {
				return err
			}
		}
		if err := s.Save(); err != nil {
			return err
		}
		if smClear {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared dataset for %s\n", smStudy)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Set dataset for %s: %s\n", smStudy, s.DataDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.AddCommand(studyShowCmd)
	studyCmd.AddCommand(studySetDataCmd)

	studySetDataCmd.Flags().StringVarP(&smStudy, "study", "s", "", "study name")
	studySetDataCmd.Flags().BoolVar(&smClear, "clear", false, "clear the study's dataset override")
}
