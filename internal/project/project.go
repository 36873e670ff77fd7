// Package project persists named studies: a directory holding study.json and
// the reports produced by each comparison run.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/moltools-cli/internal/utils"
	"github.com/google/uuid"
)

const (
	studyFileName = "study.json"
	reportsDir    = "reports"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ErrInvalidName is returned for study names that are not safe directory names.
var ErrInvalidName = errors.New("invalid study name")

// Study groups comparison runs against one dataset.
type Study struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	// DataDir overrides the configured dataset when set.
	DataDir     string          `json:"data_dir,omitempty"`
	Runs        map[string]*Run `json:"runs"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Not serialized: on-disk location of the study.json
	rootDir string `json:"-"`
}

// Run records one rendered comparison.
type Run struct {
	ID        string    `json:"id"`
	Tier      string    `json:"tier"`
	Metric    string    `json:"metric"`
	Format    string    `json:"format"`
	Rows      int       `json:"rows"`
	Report    string    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateName rejects names that would escape the studies directory.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// NewStudy constructs an in-memory study. Call Save() to persist.
func NewStudy(name, description, rootDir string) *Study {
	now := time.Now()
	return &Study{
		Name:        name,
		Description: description,
		Runs:        make(map[string]*Run),
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadStudy loads a study.json from the provided directory.
func LoadStudy(dir string) (*Study, error) {
	path := filepath.Join(dir, studyFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("study not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read study: %w", err)
	}
	var s Study
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse study: %w", err)
	}
	if s.Runs == nil {
		s.Runs = make(map[string]*Run)
	}
	s.rootDir = dir
	return &s, nil
}

// ListStudies returns the names of the studies under root, sorted.
// A missing root yields no studies.
func ListStudies(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read studies dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), studyFileName)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RootDir returns the on-disk study directory path.
func (s *Study) RootDir() string { return s.rootDir }

// Save writes study.json using atomic write.
func (s *Study) Save() error {
	if s.rootDir == "" {
		return errors.New("study root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, studyFileName), data)
}

// RecordRun writes report under reports/ and adds a run entry. The caller
// persists the study with Save.
func (s *Study) RecordRun(tier, metric, format string, rows int, report []byte) (*Run, error) {
	if s.rootDir == "" {
		return nil, errors.New("study root directory not set")
	}
	dir := filepath.Join(s.rootDir, reportsDir)
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure reports dir: %w", err)
	}
	r := &Run{
		ID:        uuid.NewString(),
		Tier:      tier,
		Metric:    metric,
		Format:    format,
		Rows:      rows,
		CreatedAt: time.Now(),
	}
	name := fmt.Sprintf("%s-%s-%s%s", metric, tier, r.ID[:8], extension(format))
	if err := utils.SafeWriteFile(filepath.Join(dir, name), report); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	r.Report = filepath.Join(reportsDir, name)
	if s.Runs == nil {
		s.Runs = make(map[string]*Run)
	}
	s.Runs[r.ID] = r
	s.UpdatedAt = time.Now()
	return r, nil
}

// SortedRuns returns runs oldest first.
func (s *Study) SortedRuns() []*Run {
	out := make([]*Run, 0, len(s.Runs))
	for _, r := range s.Runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return ".md"
	case "json":
		return ".json"
	}
	return ".txt"
}
