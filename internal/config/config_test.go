package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("FACTMAP_MAX_ARGUMENTS", "")
	t.Setenv("FACTMAP_LOG_LEVEL", "")
	t.Setenv("FACTMAP_PRINT_TREE", "")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 9, cfg.MaxArguments)
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "factmap.yaml")

	cfg := DefaultConfig()
	cfg.MaxArguments = 3
	cfg.PrintTree = true
	cfg.Extensions = []string{".pl"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FACTMAP_MAX_ARGUMENTS", "5")
	t.Setenv("FACTMAP_LOG_LEVEL", "debug")
	t.Setenv("FACTMAP_PRINT_TREE", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxArguments)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.PrintTree)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad yaml", yaml: "max_arguments: [1"},
		{name: "zero limit", yaml: "max_arguments: 0"},
		{name: "bad level", yaml: "log_level: loud"},
		{name: "bad extension", yaml: "extensions: [pl]"},
		{name: "bad env limit", env: map[string]string{"FACTMAP_MAX_ARGUMENTS": "many"}},
		{name: "bad env bool", env: map[string]string{"FACTMAP_PRINT_TREE": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "factmap.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("FACTMAP_CONFIG", "")
	assert.Equal(t, DefaultFile, Path())

	t.Setenv("FACTMAP_CONFIG", "/etc/factmap.yaml")
	assert.Equal(t, "/etc/factmap.yaml", Path())
}
