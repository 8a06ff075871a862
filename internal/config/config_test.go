package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 3, cfg.Engine.OpenLoopThreshold)
	assert.Equal(t, "fail_open", cfg.Gate.UnresolvedRolePolicy)
	assert.Equal(t, "heuristic", cfg.Classifier.Provider)
}

func TestLoad_FileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiller.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  open_loop_threshold: 7
gate:
  unresolved_role_policy: fail_closed
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Engine.OpenLoopThreshold)
	assert.Equal(t, 90, cfg.Engine.BreakAfterMinutes, "unset keys keep defaults")
	assert.Equal(t, "fail_closed", cfg.Gate.UnresolvedRolePolicy)
}

func TestLoad_MalformedYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiller.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "from-env")

	path := filepath.Join(t.TempDir(), "tiller.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
classifier:
  provider: genai
  api_key: from-file
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Classifier.APIKey)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"negative loop threshold", func(c *Config) { c.Engine.OpenLoopThreshold = -1 }, true},
		{"negative break minutes", func(c *Config) { c.Engine.BreakAfterMinutes = -5 }, true},
		{"unknown gate policy", func(c *Config) { c.Gate.UnresolvedRolePolicy = "fail_sideways" }, true},
		{"unknown provider", func(c *Config) { c.Classifier.Provider = "oracle" }, true},
		{"genai without key", func(c *Config) { c.Classifier.Provider = "genai"; c.Classifier.APIKey = "" }, true},
		{"genai with key", func(c *Config) { c.Classifier.Provider = "genai"; c.Classifier.APIKey = "k" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
