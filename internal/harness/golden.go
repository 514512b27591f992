package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenName is the golden file name, without extension, for the code a
// scenario generates for one target.
func GoldenName(scenario, target string) string {
	return scenario + "_" + target
}

// GoldenPath returns the golden file for a scenario file and target:
// golden/<name>_<target>.golden next to the scenario.
func GoldenPath(scenarioFile, target string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", GoldenName(name, target)+".golden")
}

// UpdateGolden writes the generated code of every translated target.
func UpdateGolden(scenarioFile string, result *Result) error {
	for _, tr := range result.Targets {
		if tr.Code == "" {
			continue
		}
		path := GoldenPath(scenarioFile, tr.Target)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(tr.Code), 0644); err != nil {
			return fmt.Errorf("failed to write golden file: %w", err)
		}
	}
	return nil
}

// CompareGolden checks the generated code against existing golden files and
// returns the targets that differ. Targets without a golden file are not
// compared.
func CompareGolden(scenarioFile string, result *Result) ([]string, error) {
	mismatched := []string{}
	for _, tr := range result.Targets {
		if tr.Code == "" {
			continue
		}
		want, err := os.ReadFile(GoldenPath(scenarioFile, tr.Target))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read golden file: %w", err)
		}
		if !bytes.Equal(want, []byte(tr.Code)) {
			mismatched = append(mismatched, tr.Target)
		}
	}
	return mismatched, nil
}

// AssertGolden compares the generated code of every translated target in
// result against testdata/golden/<name>_<target>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tr := range result.Targets {
		if tr.Code == "" {
			continue
		}
		g.Assert(t, GoldenName(result.Name, tr.Target), []byte(tr.Code))
	}
}
