package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenPath returns golden/<name>.golden under the scenario's directory.
func GoldenPath(scenario *Scenario) string {
	return filepath.Join(scenario.Dir, "golden", scenario.Name+".golden")
}

// CompareGolden compares the result output against the scenario's golden
// file. Returns (true, nil) when no golden file exists.
func CompareGolden(scenario *Scenario, result *Result) (bool, error) {
	golden, err := os.ReadFile(GoldenPath(scenario))
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return string(golden) == result.Output, nil
}

// UpdateGolden writes the result output as the scenario's golden file.
// Failed conversions have no output and are rejected.
func UpdateGolden(scenario *Scenario, result *Result) error {
	if result.ConversionError != "" {
		return fmt.Errorf("conversion failed, no output to record: %s", result.ConversionError)
	}
	path := GoldenPath(scenario)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(result.Output), 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// RunWithGolden executes a scenario and compares its GeoJSON output
// against <fixtureDir>/<scenario.Name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, fixtureDir string) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if result.ConversionError != "" {
		return result, fmt.Errorf("conversion failed: %s", result.ConversionError)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(fixtureDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, strings.TrimSuffix(scenario.Name, ".golden"), []byte(result.Output))
	return result, nil
}
