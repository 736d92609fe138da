package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/case2geojson/internal/config"
	"github.com/roach88/case2geojson/internal/engine"
	"github.com/roach88/case2geojson/internal/testutil"
)

// Run executes a scenario and evaluates its assertions.
//
// Each run uses a fresh engine with a fixed run ID. The returned error is
// for harness problems (unreadable input, bad config); a failing
// conversion is recorded in the Result.
func Run(scenario *Scenario) (*Result, error) {
	cfg, err := scenarioConfig(scenario)
	if err != nil {
		return nil, err
	}

	doc, err := scenarioDocument(scenario)
	if err != nil {
		return nil, err
	}

	result, err := convert(cfg, scenario.RunID, doc)
	if err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func convert(cfg config.Config, runID string, doc []byte) (*Result, error) {
	eng, err := engine.New(cfg,
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(runID)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	result := NewResult()
	res, err := eng.Convert(context.Background(), bytes.NewReader(doc))
	if err != nil {
		result.Stage = engine.StageOf(err)
		result.ConversionError = err.Error()
		return result, nil
	}

	var out strings.Builder
	if err := eng.Write(&out, res); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	result.Output = out.String()
	result.collection = res.Collection
	if res.Defects != nil {
		result.Defects = res.Defects
	}
	return result, nil
}

// scenarioConfig applies the scenario's config block to the defaults.
func scenarioConfig(s *Scenario) (config.Config, error) {
	if s.Config.Kind == 0 {
		return config.Default(), nil
	}
	data, err := yaml.Marshal(&s.Config)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to encode scenario config: %w", err)
	}
	cfg, err := config.Parse(data, "yaml", s.Name)
	if err != nil {
		return config.Config{}, fmt.Errorf("scenario %s config: %w", s.Name, err)
	}
	return cfg, nil
}

func scenarioDocument(s *Scenario) ([]byte, error) {
	if s.Document != "" {
		return []byte(s.Document), nil
	}
	data, err := os.ReadFile(s.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario input: %w", err)
	}
	return data, nil
}
