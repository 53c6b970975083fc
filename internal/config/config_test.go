// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig sets RELQ_CFG to point to a test config file and resets
// the global Config so the next access reloads it.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("RELQ_CFG", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "https://api.github.com", cfg.Data["api"])
				assert.Equal(t, "text", cfg.Data["output"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				c, ok := cfg.Data["cache"].(map[string]interface{})
				require.True(t, ok, "cache should be a map")
				assert.Equal(t, "12h", c["fresh"])
				assert.Equal(t, 72, c["clean"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "relq-test", cfg.Data["name"])
				assert.Equal(t, 4, cfg.Data["parallel"])
				assert.Equal(t, true, cfg.Data["all"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
				repos, ok := cfg.Data["repos"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, repos, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source, "should have a source path")
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv("RELQ_CFG", "/nonexistent/relq.yaml")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Data["output"])
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("RELQ_CFG", "/nonexistent/path/relq.yaml")
	Config = Type{}

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_RELQ_CFG_IsDirectory(t *testing.T) {
	t.Setenv("RELQ_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestLoad_StandardLocations(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte("output: yaml\n"), 0o600))

	t.Setenv("RELQ_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", home)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, FileName), cfg.Source)

	// XDG_CONFIG_HOME wins over HOME.
	require.NoError(t, os.WriteFile(filepath.Join(xdg, FileName), []byte("output: raw\n"), 0o600))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "raw", cfg.Data["output"])
}

func TestLoad_InvalidYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(p, []byte("a: [b\n"), 0o600))
	t.Setenv("RELQ_CFG", p)
	Config = Type{}

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "simple string value", testFile: "simple.yaml", key: "api", want: "https://api.github.com"},
		{name: "nested string value", testFile: "nested.yaml", key: "colors.title", want: "#00ff00"},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []string{"default-value"}, want: "default-value"},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-string value", testFile: "mixed-types.yaml", key: "parallel", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int value", testFile: "mixed-types.yaml", key: "parallel", want: 4},
		{name: "float value converted to int", testFile: "mixed-types.yaml", key: "timeout", want: 30},
		{name: "nested int value", testFile: "nested.yaml", key: "cache.clean", want: 72},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []int{60}, want: 60},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-int value", testFile: "simple.yaml", key: "api", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetInt(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetBool(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")

	got, err := GetBool("all")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = GetBool("missing", true)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = GetBool("name")
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []time.Duration
		want         time.Duration
		wantErr      bool
	}{
		{name: "duration string", testFile: "nested.yaml", key: "cache.fresh", want: 12 * time.Hour},
		{name: "bare seconds", testFile: "mixed-types.yaml", key: "fresh", want: 90 * time.Second},
		{name: "fractional seconds", testFile: "mixed-types.yaml", key: "timeout", want: 30500 * time.Millisecond},
		{name: "default", testFile: "simple.yaml", key: "cache.fresh", defaultValue: []time.Duration{24 * time.Hour}, want: 24 * time.Hour},
		{name: "bad string", testFile: "simple.yaml", key: "output", wantErr: true},
		{name: "wrong type", testFile: "mixed-types.yaml", key: "repos", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetDuration(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")

	got, err := GetStringSlice("repos")
	require.NoError(t, err)
	assert.Equal(t, []string{"cli/cli", "jdx/mise"}, got)

	got, err = GetStringSlice("attrs")
	require.NoError(t, err)
	assert.Equal(t, []string{".tag_name", ".assets.#"}, got)

	got, err = GetStringSlice("missing", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)

	_, err = GetStringSlice("all")
	assert.Error(t, err)
}

func TestConfig_GetWithNamespace(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	_, err := Load()
	require.NoError(t, err)

	Config.Namespace = "rq"
	val, err := Config.get("output")
	require.NoError(t, err)
	assert.Equal(t, "json", val)

	Config.Namespace = "tq"
	val, err = Config.get("output")
	require.NoError(t, err)
	assert.Equal(t, "yaml", val)

	// Falls back to the global key when the namespace lacks it.
	val, err = Config.get("cache.fresh")
	require.NoError(t, err)
	assert.Equal(t, "12h", val)
}

func TestConfig_GetNestedPath(t *testing.T) {
	setupTestConfig(t, "deep-nested.yaml")

	_, err := Load()
	require.NoError(t, err)

	val, err := Config.get("level1.level2.level3.value")
	require.NoError(t, err)
	assert.Equal(t, "deep-value", val)
}

func TestConfig_LazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	val, err := GetString("api")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}

func TestNamespaceFallback(t *testing.T) {
	setupTestConfig(t, "namespace.yaml")

	_, err := Load()
	require.NoError(t, err)
	Config.Namespace = "rq"

	val, err := GetString("setting")
	require.NoError(t, err)
	assert.Equal(t, "rq-value", val)

	val, err = GetString("specific")
	require.NoError(t, err)
	assert.Equal(t, "rq-specific", val)

	sets, err := GetStringSlice("tools")
	require.NoError(t, err)
	assert.Equal(t, []string{"cli/cli", "jdx/mise"}, sets)

	Config.Namespace = "tq"
	sets, err = GetStringSlice("tools")
	require.NoError(t, err)
	assert.Equal(t, []string{"junegunn/fzf"}, sets)

	_, err = GetString("nonexistent")
	assert.Error(t, err)
}
