package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/scenario_b.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s, "testdata/scenarios/golden")
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRunWithGolden_ConversionFailure(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/not_json.yaml")
	require.NoError(t, err)

	_, err = RunWithGolden(t, s, "testdata/scenarios/golden")
	require.Error(t, err)
}

func TestUpdateAndCompareGolden(t *testing.T) {
	dir := t.TempDir()
	s := &Scenario{Name: "tmp", Dir: dir}

	r := NewResult()
	r.Output = "{\"type\":\"FeatureCollection\",\"features\":[]}\n"

	match, err := CompareGolden(s, r)
	require.NoError(t, err)
	assert.True(t, match, "no golden file means no comparison")

	require.NoError(t, UpdateGolden(s, r))
	data, err := os.ReadFile(filepath.Join(dir, "golden", "tmp.golden"))
	require.NoError(t, err)
	assert.Equal(t, r.Output, string(data))

	other := NewResult()
	other.Output = "{}\n"
	match, err = CompareGolden(s, other)
	require.NoError(t, err)
	assert.False(t, match)

	failed := NewResult()
	failed.ConversionError = "boom"
	assert.Error(t, UpdateGolden(s, failed))
}
