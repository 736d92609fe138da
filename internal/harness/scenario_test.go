package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ResolvesInput(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/scenario_b.yaml")
	require.NoError(t, err)

	assert.Equal(t, "scenario_b", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "inputs", "paris.jsonld"), s.Input)
	assert.Equal(t, filepath.Join("testdata", "scenarios"), s.Dir)
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, []float64{2.331199, 48.860346}, s.Assertions[1].Coordinates)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, `
name: typo
document: "{}"
asertions:
  - type: feature_count
    count: 0
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "document: '{}'\nassertions: [{type: feature_count, count: 0}]", "name is required"},
		{"no input", "name: x\nassertions: [{type: feature_count, count: 0}]", "one of input or document"},
		{"both inputs", "name: x\ninput: a.jsonld\ndocument: '{}'\nassertions: [{type: feature_count, count: 0}]", "mutually exclusive"},
		{"no assertions", "name: x\ndocument: '{}'", "at least one assertion"},
		{"missing count", "name: x\ndocument: '{}'\nassertions: [{type: feature_count}]", "count is required"},
		{"negative count", "name: x\ndocument: '{}'\nassertions: [{type: defect_count, count: -1}]", "non-negative"},
		{"bad geometry", "name: x\ndocument: '{}'\nassertions: [{type: feature, geometry: line}]", "geometry must be"},
		{"bad coordinates", "name: x\ndocument: '{}'\nassertions: [{type: feature, coordinates: [1]}]", "[longitude, latitude]"},
		{"coordinates without point", "name: x\ndocument: '{}'\nassertions: [{type: feature, geometry: none, coordinates: [1, 2]}]", "geometry none"},
		{"bad stage", "name: x\ndocument: '{}'\nassertions: [{type: error, stage: network}]", "unknown stage"},
		{"unknown type", "name: x\ndocument: '{}'\nassertions: [{type: bbox}]", "unknown assertion type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
