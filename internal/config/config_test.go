package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DefaultTier != 3 || c.HartreeToKcal != 627.5 || c.CIZ != 1.96 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.DataDir != filepath.Join(home, ".moltools", "data") {
		t.Fatalf("data_dir = %s", c.DataDir)
	}
	if c.OutputFormat != "text" {
		t.Fatalf("output_format = %s", c.OutputFormat)
	}
}

func TestSaveLoadRoundTripAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "custom.yaml")

	c := &Global{DataDir: "/srv/moldata", DefaultTier: 1, HartreeToKcal: 627.509, CIZ: 1.96, OutputFormat: "markdown"}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DataDir != "/srv/moldata" || got.DefaultTier != 1 || got.HartreeToKcal != 627.509 || got.OutputFormat != "markdown" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	t.Setenv("MOLTOOLS_DEFAULT_TIER", "0")
	got, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DefaultTier != 0 {
		t.Fatalf("env override ignored: %d", got.DefaultTier)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MOLTOOLS_OUTPUT_FORMAT", "xml")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid output_format")
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MOLTOOLS_DATA_DIR", "~/datasets/g2")
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataDir != filepath.Join(home, "datasets", "g2") {
		t.Fatalf("data_dir = %s", c.DataDir)
	}
}
