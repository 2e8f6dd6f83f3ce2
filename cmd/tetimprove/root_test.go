package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRoot_KuhnAtGoal(t *testing.T) {
	prom := filepath.Join(t.TempDir(), "run.prom")
	out, err := execute(t, "--cells", "2", "--jitter", "0", "--log-level", "warn", "--metrics-out", prom)
	require.NoError(t, err)
	assert.Contains(t, out, "stop      goal-reached after 0 rounds")
	assert.NotContains(t, out, "sizing")

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tetimprove_sessions_total 1")
	assert.Contains(t, string(data), `tetimprove_pass_total{kind="smoothing"`)
}

func TestRoot_ConfigAndSizing(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "opts.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("max_sizing_iterations: 1\ncheck_invariants: true\n"), 0o600))

	out, err := execute(t, "--cells", "2", "--jitter", "0", "--config", cfg,
		"--sizing", "--target", "0.5", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "sizing    target 0.5000, 1 iterations")
}

func TestRoot_Errors(t *testing.T) {
	cases := map[string][]string{
		"lattice":   {"--lattice", "hex"},
		"log level": {"--log-level", "loud"},
		"config":    {"--config", filepath.Join(t.TempDir(), "missing.yaml")},
		"args":      {"extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}
