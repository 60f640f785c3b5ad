package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabgrid/tabgrid/internal/config"
)

func TestLoadWithNoFilesReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-empty"))

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "tabgrid> ", cfg.Prompt)
}

func TestLoadProjectConfigOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-empty"))

	projectFile := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(projectFile, []byte(`{
		// project-local prompt
		"prompt": "sheet> ",
	}`), 0o600))

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "sheet> ", cfg.Prompt)
}

func TestLoadExplicitConfigMustExist(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-empty"))

	_, err := config.Load(dir, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadExplicitConfigOverridesProject(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-empty"))

	projectFile := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(projectFile, []byte(`{"prompt": "project> "}`), 0o600))

	explicitFile := filepath.Join(dir, "explicit.json")
	require.NoError(t, os.WriteFile(explicitFile, []byte(`{"prompt": "explicit> "}`), 0o600))

	cfg, err := config.Load(dir, explicitFile)
	require.NoError(t, err)
	assert.Equal(t, "explicit> ", cfg.Prompt)
}
