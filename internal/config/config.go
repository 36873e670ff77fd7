package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/moltools-cli/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir       string  `mapstructure:"data_dir" yaml:"data_dir"`
	DefaultTier   int     `mapstructure:"default_tier" yaml:"default_tier"`
	HartreeToKcal float64 `mapstructure:"hartree_to_kcal" yaml:"hartree_to_kcal"`
	CIZ           float64 `mapstructure:"ci_z" yaml:"ci_z"`
	ProjectsDir   string  `mapstructure:"projects_dir" yaml:"projects_dir"`
	// text | markdown | json
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
}

// Dir returns ~/.moltools.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".moltools"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.moltools/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("MOLTOOLS")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "")
	v.SetDefault("default_tier", 3)
	v.SetDefault("hartree_to_kcal", 627.5)
	v.SetDefault("ci_z", 1.96)
	v.SetDefault("projects_dir", "")
	v.SetDefault("output_format", "text")

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(dir, "data")
	}
	if c.ProjectsDir == "" {
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	if c.DataDir, err = utils.ExpandHome(c.DataDir); err != nil {
		return nil, err
	}
	if c.ProjectsDir, err = utils.ExpandHome(c.ProjectsDir); err != nil {
		return nil, err
	}
	switch c.OutputFormat {
	case "text", "markdown", "json":
	default:
		return nil, fmt.Errorf("invalid output_format %q (use text|markdown|json)", c.OutputFormat)
	}
	return &c, nil
}
