package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cheatfind/pkg/config"
)

// fakeEnv returns a Getenv backed by vars.
func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeUserConfig(t *testing.T, configHome, content string) string {
	t.Helper()

	dir := filepath.Join(configHome, "cheatfind")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	env := fakeEnv(map[string]string{
		"XDG_CONFIG_HOME": t.TempDir(),
	})
	result, err := Load(context.Background(), LoadOptions{Getenv: env})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultHeight, result.Config.Height)
	assert.Equal(t, config.DefaultLimit, result.Config.Limit)
	assert.Equal(t, ".commands", result.Config.Extension)
	assert.Equal(t, config.ColorAuto, result.Config.Color)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Paths.User)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	configHome := t.TempDir()
	userPath := writeUserConfig(t, configHome, "corpus_path: /user\nheight: 4\nlimit: 20\nextension: .cmds\n")

	explicitPath := filepath.Join(t.TempDir(), "explicit.yml")
	require.NoError(t, os.WriteFile(explicitPath, []byte("height: 6\ncolor: never\n"), 0o644))

	env := fakeEnv(map[string]string{
		"XDG_CONFIG_HOME":    configHome,
		"CHEATFIND_LIMIT":    "30",
		"CHEATFIND_PLATFORM": "osx",
	})

	result, err := Load(context.Background(), LoadOptions{
		ExplicitPath: explicitPath,
		Getenv:       env,
		CLIConfig:    &config.Config{Height: 8, CommandOnly: true},
	})
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "/user", cfg.CorpusPath, "user config")
	assert.Equal(t, ".cmds", cfg.Extension, "user config")
	assert.Equal(t, config.ColorNever, cfg.Color, "explicit config")
	assert.Equal(t, 30, cfg.Limit, "environment beats files")
	assert.Equal(t, "osx", cfg.Platform, "environment")
	assert.Equal(t, 8, cfg.Height, "flags beat everything")
	assert.True(t, cfg.CommandOnly)

	assert.Equal(t, []string{userPath, explicitPath}, result.LoadedFrom)
}

func TestLoad_IgnoreSources(t *testing.T) {
	t.Parallel()

	configHome := t.TempDir()
	writeUserConfig(t, configHome, "height: 4\n")

	result, err := Load(context.Background(), LoadOptions{
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
		Getenv:           fakeEnv(map[string]string{"XDG_CONFIG_HOME": configHome, "CHEATFIND_HEIGHT": "3"}),
	})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultHeight, result.Config.Height)
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		env   map[string]string
		cli   *config.Config
		field string
	}{
		{name: "bad color", env: map[string]string{"CHEATFIND_COLOR": "rainbow"}, field: "color"},
		{name: "bad extension", cli: &config.Config{Extension: "commands"}, field: "extension"},
		{name: "negative height", cli: &config.Config{Height: -1}, field: "height"},
		{name: "non-numeric limit", env: map[string]string{"CHEATFIND_LIMIT": "many"}, field: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := map[string]string{"XDG_CONFIG_HOME": t.TempDir()}
			for k, v := range tt.env {
				env[k] = v
			}

			_, err := Load(context.Background(), LoadOptions{Getenv: fakeEnv(env), CLIConfig: tt.cli})
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad_BrokenConfigFile(t *testing.T) {
	t.Parallel()

	configHome := t.TempDir()
	path := writeUserConfig(t, configHome, "height: 4\nlimit: lots\n")

	_, err := Load(context.Background(), LoadOptions{Getenv: fakeEnv(map[string]string{"XDG_CONFIG_HOME": configHome})})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, path, verr.FilePath)
	assert.Equal(t, 2, verr.Line)
	assert.Contains(t, err.Error(), path+":2")
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), LoadOptions{
		ExplicitPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Getenv:       fakeEnv(map[string]string{"XDG_CONFIG_HOME": t.TempDir()}),
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_LimitBelowHeightWarns(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), LoadOptions{
		Getenv:    fakeEnv(map[string]string{"XDG_CONFIG_HOME": t.TempDir()}),
		CLIConfig: &config.Config{Height: 10, Limit: 3},
	})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "limit")
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	merged := MergeAll(
		&config.Config{Height: 1, Extension: ".a"},
		&config.Config{Height: 2},
		&config.Config{Update: true, LogFile: "log"},
	)
	assert.Equal(t, &config.Config{Height: 2, Extension: ".a", Update: true, LogFile: "log"}, merged)
}

func TestUserConfigDir(t *testing.T) {
	t.Parallel()

	env := fakeEnv(map[string]string{"XDG_CONFIG_HOME": "/xdg"})
	assert.Equal(t, filepath.Join("/xdg", "cheatfind"), UserConfigDir(env))
	assert.Equal(t, filepath.Join("/xdg", "cheatfind", "config.yaml"), DefaultConfigPath(env))
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	require.Len(t, vars, len(envMappings))
	assert.Equal(t, "CHEATFIND_COLOR", vars[0].Name)
	for _, v := range vars {
		assert.NotEmpty(t, v.Description, v.Name)
	}
}
