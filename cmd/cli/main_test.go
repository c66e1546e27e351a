package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoml/internal/export"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CATALOG_FILE", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSamplesCommand(t *testing.T) {
	out, err := run(t, "samples")
	require.NoError(t, err)
	assert.Contains(t, out, "K00752.01")
	assert.Contains(t, out, "Kepler-664 b")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6)
}

func TestShowCommand(t *testing.T) {
	out, err := run(t, "show", "3", "--tab", "false-positive")
	require.NoError(t, err)
	assert.Contains(t, out, "K00754.01")
	assert.Contains(t, out, "69% Confidence")
	assert.Contains(t, out, "Stellar Eclipse")
	assert.NotContains(t, out, "population:")

	out, err = run(t, "show", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "population: n=")

	_, err = run(t, "show", "9")
	assert.Error(t, err)
}

func TestConfidenceCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"stored criteria", []string{"confidence", "2"}, "51% Confidence"},
		{"capped candidate", []string{"confidence", "2", "--set", "transit-signal=100", "--set", "orbit-plausibility=100",
			"--set", "planetary-plausibility=100", "--set", "false-positive=100"}, "80% Confidence"},
		{"clamped override", []string{"confidence", "3", "--set", "false-positive=500"}, "68% Confidence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}

	_, err := run(t, "confidence", "0", "--set", "transit-signal")
	assert.Error(t, err)
	_, err = run(t, "confidence", "0", "--set", "bogus=1")
	assert.Error(t, err)
}

func TestParseSet(t *testing.T) {
	key, value, err := parseSet(" orbit-plausibility = 42 ")
	require.NoError(t, err)
	assert.Equal(t, "orbit-plausibility", key)
	assert.Equal(t, 42, value)

	_, _, err = parseSet("=4")
	assert.Error(t, err)
	_, _, err = parseSet("transit-signal=x")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", "1", "-o", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "exoml-data-K00752.02.json")
	assert.Equal(t, path, strings.TrimSpace(out))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	rec, err := export.ParseRecord(body)
	require.NoError(t, err)
	assert.Equal(t, "Kepler-227 c", rec.SampleName)
	assert.Equal(t, "85% Confidence", rec.Confidence)
}

func TestChartCommandAll(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "chart", "0", "--all", "-o", dir)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 5)

	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 5)

	_, err = run(t, "chart", "0", "--tab", "spectra", "-o", dir)
	assert.Error(t, err)
}

func TestCatalogFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"samples": [
		{"id": "K01000.01", "name": "Test Planet", "disposition": "CANDIDATE",
		 "criteria": {"transit-signal": 50, "false-positive": 50, "planetary-plausibility": 50,
		              "orbit-plausibility": 50, "temperature-habitability": 50},
		 "data": {"period": 3, "snr": 9}}
	]}`), 0o644))

	out, err := run(t, "--catalog", path, "samples")
	require.NoError(t, err)
	assert.Contains(t, out, "K01000.01")
	assert.NotContains(t, out, "K00752.01")
}
