package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentsystems/model-router/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testConfig = `config_version: 1
model_connections:
  claude-sonnet-4:
    hosting_provider: anthropic
    hosting_provider_model_id: claude-sonnet-4-20250514
    enabled: true
    auth:
      method: api_key
      api_key_env: ANTHROPIC_API_KEY
  gpt-4o:
    hosting_provider: openai
    hosting_provider_model_id: gpt-4o
    enabled: true
    auth:
      method: api_key
      api_key_env: OPENAI_API_KEY
  disabled-model:
    hosting_provider: anthropic
    enabled: false
    auth:
      method: api_key
      api_key_env: TEST_KEY
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agentsystems-config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_Resolve(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, testConfig)
	out := &bytes.Buffer{}

	err := run(out, []string{"resolve", "claude-sonnet-4", "--config", path})

	require.NoError(t, err)
	require.Contains(t, out.String(), "claude-sonnet-4:")
	require.Contains(t, out.String(), "hosting_provider_model_id: claude-sonnet-4-20250514")
	require.Contains(t, out.String(), "api_key_env: ANTHROPIC_API_KEY")
}

func TestRun_ResolveDisabled(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, testConfig)

	err := run(&bytes.Buffer{}, []string{"resolve", "disabled-model", "--config", path})

	require.EqualError(t, err, "Model connection 'disabled-model' is disabled")
}

func TestRun_ResolveMissingConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "agentsystems-config.yml")

	err := run(&bytes.Buffer{}, []string{"resolve", "claude-sonnet-4", "--config", path})

	require.Error(t, err)
	require.Contains(t, err.Error(), "AgentSystems config not found at "+path)
}

func TestRun_Validate(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, testConfig)
	out := &bytes.Buffer{}

	err := run(out, []string{"validate", "--config", path, "claude-sonnet-4", "gpt-4o", "missing-model", "gpt-4o"})

	require.EqualError(t, err, "unavailable models: missing-model")
	require.Contains(t, out.String(), "claude-sonnet-4\tavailable\ngpt-4o\tavailable\nmissing-model\tunavailable\n")
}

func TestRun_ValidateAllAvailable(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, testConfig)
	out := &bytes.Buffer{}

	err := run(out, []string{"validate", "--config", path, "gpt-4o"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "gpt-4o\tavailable\n")
}

func TestRun_Check(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, testConfig)
	out := &bytes.Buffer{}

	require.NoError(t, run(out, []string{"check", "--config", path}))
	require.Contains(t, out.String(), "3 model connection(s) OK")
}

func TestRun_CheckReportsProblems(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `config_version: 1
model_connections:
  broken:
    enabled: true
    auth:
      method: api_key
`)
	out := &bytes.Buffer{}

	err := run(out, []string{"check", "--config", path})

	require.Error(t, err)
	require.Contains(t, err.Error(), "2 problem(s) found")
	require.Contains(t, out.String(), "'broken': hosting_provider is required")
	require.Contains(t, out.String(), "'broken': auth.api_key_env is required")
}

func TestRun_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, []string{"check", "--log-level", "loud"})

	require.Error(t, err)
	require.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestRecheck(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		level   zapcore.Level
		message string
	}{
		{
			name: "broken record",
			content: `config_version: 1
model_connections:
  broken:
    enabled: true
    auth:
      method: api_key
`,
			level:   zap.WarnLevel,
			message: "Changed config has problems",
		},
		{name: "valid config", content: testConfig, level: zap.InfoLevel, message: "Changed config is valid"},
		{name: "invalid yaml", content: "model_connections: [unclosed", level: zap.ErrorLevel, message: "Changed config cannot be loaded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			core, logs := observer.New(zap.InfoLevel)
			c := &cli{logger: zap.New(core), source: config.NewFileSource(writeConfig(t, tc.content), nil)}

			c.recheck()

			entries := logs.All()
			require.Len(t, entries, 1)
			require.Equal(t, tc.message, entries[0].Message)
			require.Equal(t, tc.level, entries[0].Level)
		})
	}
}

func TestRecheckReportsEachProblem(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.InfoLevel)
	c := &cli{logger: zap.New(core), source: config.NewFileSource(writeConfig(t, `config_version: 1
model_connections:
  broken:
    enabled: true
    auth:
      method: api_key
`), nil)}

	c.recheck()

	entries := logs.FilterMessage("Changed config has problems").All()
	require.Len(t, entries, 1)
	problems, ok := entries[0].ContextMap()["problems"].([]interface{})
	require.True(t, ok, "expected problems array, got %T", entries[0].ContextMap()["problems"])
	require.Len(t, problems, 2)
}

func TestRecheckMissingFile(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.InfoLevel)
	c := &cli{logger: zap.New(core), source: config.NewFileSource(filepath.Join(t.TempDir(), "gone.yml"), nil)}

	c.recheck()

	require.Equal(t, 1, logs.FilterMessage("Changed config cannot be loaded").Len())
}
