package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func executeBatch(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewBatchCommand(newTestRootOptions(format))
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestBatchConvertsAll(t *testing.T) {
	in := writeInputs(t, map[string]string{
		"a.jsonld":        testutil.ScenarioA,
		"nested/b.jsonld": testutil.ScenarioB,
	})
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := executeBatch(t, "text", "--out-dir", outDir, "--jobs", "2", filepath.Join(in, "**", "*.jsonld"))
	require.NoError(t, err)
	assert.Contains(t, out, "2 converted, 0 failed, 2 total")

	for _, name := range []string{"a.geojson", "b.geojson"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), `"FeatureCollection"`)
	}
}

func TestBatchPartialFailure(t *testing.T) {
	in := writeInputs(t, map[string]string{
		"good.jsonld": testutil.ScenarioB,
		"bad.jsonld":  testutil.NotJSON,
	})
	outDir := t.TempDir()
	report := filepath.Join(t.TempDir(), "report.json")

	out, err := executeBatch(t, "json", "--out-dir", outDir, "--report", report, filepath.Join(in, "*.jsonld"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string      `json:"status"`
		Data   BatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Converted)
	assert.Equal(t, 1, resp.Data.Failed)

	_, err = os.Stat(filepath.Join(outDir, "good.geojson"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "bad.geojson"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var reports []engine.Report
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 2)
	// Jobs are sorted by input path.
	assert.Equal(t, engine.StageInput, reports[0].Stage)
	assert.Equal(t, 1, reports[1].Stats.Features)
}

func TestBatchNoMatches(t *testing.T) {
	_, err := executeBatch(t, "text", "--out-dir", t.TempDir(), filepath.Join(t.TempDir(), "*.jsonld"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no files matched")
}

func TestBatchOutputCollision(t *testing.T) {
	in := writeInputs(t, map[string]string{
		"x/case.jsonld": testutil.ScenarioA,
		"y/case.jsonld": testutil.ScenarioB,
	})

	_, err := executeBatch(t, "text", "--out-dir", t.TempDir(), filepath.Join(in, "**", "*.jsonld"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBatchRequiresOutDir(t *testing.T) {
	_, err := executeBatch(t, "text", "a.jsonld")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out-dir")
}
