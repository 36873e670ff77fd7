package utils_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/moltools-cli/internal/utils"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	if err := utils.SafeWriteFile(p, []byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "ok" {
		t.Fatalf("read back %q %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestPrettyJSONRejectsNaN(t *testing.T) {
	if _, err := utils.PrettyJSON(math.NaN()); err == nil {
		t.Fatalf("expected error for NaN")
	}
	b, err := utils.PrettyJSON(map[string]int{"n": 1})
	if err != nil || string(b) != "{\n  \"n\": 1\n}" {
		t.Fatalf("got %q %v", b, err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cases := map[string]string{
		"~":          home,
		"~/data":     filepath.Join(home, "data"),
		"/abs/path":  "/abs/path",
		"rel/~/path": "rel/~/path",
	}
	for in, want := range cases {
		got, err := utils.ExpandHome(in)
		if err != nil || got != want {
			t.Errorf("ExpandHome(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}
