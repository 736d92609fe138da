package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/case2geojson/internal/config"
	"github.com/roach88/case2geojson/internal/engine"
	"github.com/roach88/case2geojson/internal/testutil"
)

func writeInputs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestPlan(t *testing.T) {
	dir := writeInputs(t, map[string]string{
		"a.jsonld":        testutil.ScenarioA,
		"nested/b.jsonld": testutil.ScenarioB,
		"notes.txt":       "ignore me",
	})
	out := filepath.Join(dir, "out")

	jobs, err := Plan([]string{
		filepath.Join(dir, "**", "*.jsonld"),
		filepath.Join(dir, "a.jsonld"),
	}, out)
	require.NoError(t, err)

	assert.Equal(t, []Job{
		{Input: filepath.Join(dir, "a.jsonld"), Output: filepath.Join(out, "a.geojson")},
		{Input: filepath.Join(dir, "nested", "b.jsonld"), Output: filepath.Join(out, "b.geojson")},
	}, jobs)
}

func TestPlan_NoMatches(t *testing.T) {
	_, err := Plan([]string{filepath.Join(t.TempDir(), "*.jsonld")}, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files matched")
}

func TestPlan_OutputCollision(t *testing.T) {
	dir := writeInputs(t, map[string]string{
		"x/case.jsonld": testutil.ScenarioA,
		"y/case.jsonld": testutil.ScenarioB,
	})
	_, err := Plan([]string{filepath.Join(dir, "**", "*.jsonld")}, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both write")
}

func TestRunner_Run(t *testing.T) {
	dir := writeInputs(t, map[string]string{
		"a.jsonld":   testutil.ScenarioA,
		"b.jsonld":   testutil.ScenarioB,
		"bad.jsonld": testutil.NotJSON,
	})
	out := filepath.Join(dir, "out")
	jobs, err := Plan([]string{filepath.Join(dir, "*.jsonld")}, out)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	e, err := engine.New(config.Default())
	require.NoError(t, err)

	outcomes, err := NewRunner(e, 2, nil).Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, 1, Failed(outcomes))

	// a, b, bad in sorted order
	assert.NoError(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	assert.True(t, engine.IsStage(outcomes[2].Err, engine.StageInput))

	data, err := os.ReadFile(filepath.Join(out, "b.geojson"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"coordinates":[2.331199,48.860346]`)

	_, err = os.Stat(filepath.Join(out, "bad.geojson"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_Cancelled(t *testing.T) {
	dir := writeInputs(t, map[string]string{"a.jsonld": testutil.ScenarioA})
	jobs, err := Plan([]string{filepath.Join(dir, "*.jsonld")}, filepath.Join(dir, "out"))
	require.NoError(t, err)

	e, err := engine.New(config.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes, err := NewRunner(e, 1, nil).Run(ctx, jobs)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, Failed(outcomes))
}
