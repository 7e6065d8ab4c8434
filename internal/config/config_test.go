// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/liveness"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	return ctxlog.New(context.Background(), nil)
}

var cfgPath = filepath.Join("cfg", DefaultFileName)

func writeConfig(t *testing.T, fs afero.Fs, src string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, cfgPath, []byte(src), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, liveness.DefaultTarget, cfg.TargetProcess)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Zero(t, cfg.PollTimeout)
	assert.False(t, cfg.FailFast)
	assert.Equal(t, store.DefaultFileName, filepath.Base(cfg.StorePath))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(testCtx(), afero.NewMemMapFs(), cfgPath, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileRequired(t *testing.T) {
	_, err := Load(testCtx(), afero.NewMemMapFs(), cfgPath, true)
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_FullFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, `
store {
  path = "lists/command.yaml"
}

launcher {
  target_process = "Notepad.exe"
  poll_interval  = "250ms"
  poll_timeout   = "1m"
  fail_fast      = true
}
`)

	cfg, err := Load(testCtx(), fs, cfgPath, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("cfg", "lists", "command.yaml"), cfg.StorePath)
	assert.Equal(t, "Notepad.exe", cfg.TargetProcess)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, time.Minute, cfg.PollTimeout)
	assert.True(t, cfg.FailFast)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, `launcher {
  poll_timeout = "30s"
}
`)

	cfg, err := Load(testCtx(), fs, cfgPath, true)
	require.NoError(t, err)
	assert.Equal(t, Default().StorePath, cfg.StorePath)
	assert.Equal(t, liveness.DefaultTarget, cfg.TargetProcess)
	assert.Equal(t, liveness.DefaultInterval, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.PollTimeout)
}

func TestLoad_EnvVariables(t *testing.T) {
	stubs := gostub.Stub(&Environ, func() []string {
		return []string{"UT_HOME=/srv/ut", "BROKEN"}
	})
	defer stubs.Reset()

	fs := afero.NewMemMapFs()
	writeConfig(t, fs, `store {
  path = "${env.UT_HOME}/command.json"
}
`)

	cfg, err := Load(testCtx(), fs, cfgPath, true)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(cfg.StorePath), "/srv/ut/command.json"), cfg.StorePath)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"syntax", `store {`, ErrParseConfig},
		{"unknown attribute", "store {\n  file = \"x\"\n}\n", ErrParseConfig},
		{"bad duration", "launcher {\n  poll_interval = \"soon\"\n}\n", ErrInvalidDuration},
		{"negative duration", "launcher {\n  poll_timeout = \"-1s\"\n}\n", ErrInvalidDuration},
		{"unknown env", "store {\n  path = env.NOPE_NOT_SET_X\n}\n", ErrParseConfig},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stubs := gostub.Stub(&Environ, func() []string { return nil })
			defer stubs.Reset()

			fs := afero.NewMemMapFs()
			writeConfig(t, fs, tc.src)

			_, err := Load(testCtx(), fs, cfgPath, true)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoad_NonHCLExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "settings.conf", []byte("launcher {\n  fail_fast = true\n}\n"), 0o644))

	cfg, err := Load(testCtx(), fs, "settings.conf", true)
	require.NoError(t, err)
	assert.True(t, cfg.FailFast)
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteDefault(fs, cfgPath, false))

	data, err := afero.ReadFile(fs, cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "launcher {")
	assert.Contains(t, string(data), `"SystemSettings.exe"`)

	cfg, err := Load(testCtx(), fs, cfgPath, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("cfg", store.DefaultFileName), cfg.StorePath)
	assert.Equal(t, liveness.DefaultTarget, cfg.TargetProcess)
	assert.Equal(t, liveness.DefaultInterval, cfg.PollInterval)
	assert.Zero(t, cfg.PollTimeout)
	assert.False(t, cfg.FailFast)
}

func TestWriteDefault_Exists(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "# mine\n")

	require.ErrorIs(t, WriteDefault(fs, cfgPath, false), ErrConfigExists)

	data, err := afero.ReadFile(fs, cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))

	require.NoError(t, WriteDefault(fs, cfgPath, true))
}

func TestWriteDefault_ReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	require.ErrorIs(t, WriteDefault(fs, "undertasker.hcl", false), ErrWriteConfig)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultFileName, filepath.Base(DefaultPath()))
	assert.Equal(t, filepath.Dir(store.DefaultPath()), filepath.Dir(DefaultPath()))
}
