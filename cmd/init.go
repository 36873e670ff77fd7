package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/moltools-cli/internal/project"
	"github.com/KaramelBytes/moltools-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init <study-name>",
	Short: "Initialize a new study",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir, err := studyDir(name)
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing study.
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if _, err := project.LoadStudy(dir); err == nil {
				return fmt.Errorf("study already exists at %s", dir)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("inspect study directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize study", dir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat study directory: %w", err)
		}
		s := project.NewStudy(name, initDescription, dir)
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Study initialized: %s\n", dir)
		return nil
	},
}

func studiesRoot() (string, error) {
	c, err := activeConfig()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(c.ProjectsDir); err != nil {
		return "", err
	}
	return filepath.Clean(c.ProjectsDir), nil
}

func studyDir(name string) (string, error) {
	if name == "" {
		return "", errors.New("study name is required")
	}
	if err := project.ValidateName(name); err != nil {
		return "", err
	}
	root, err := studiesRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "study description")
}
