// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/liveness"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
)

// DefaultFileName is the settings file looked for next to the executable.
const DefaultFileName = "undertasker.hcl"

const (
	fileMode = 0o644
	dirMode  = 0o755
)

var (
	// ErrReadConfig is returned when the settings file exists but cannot be read.
	ErrReadConfig = errors.New("failed to read settings file")
	// ErrConfigNotFound is returned when a settings file that must exist does not.
	ErrConfigNotFound = errors.New("settings file not found")
	// ErrParseConfig is returned when the settings file is not valid.
	ErrParseConfig = errors.New("failed to parse settings file")
	// ErrInvalidDuration is returned for a poll_interval or poll_timeout that is not a duration.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrConfigExists is returned by WriteDefault when the file is already there.
	ErrConfigExists = errors.New("settings file already exists")
	// ErrWriteConfig is returned when the settings file cannot be written.
	ErrWriteConfig = errors.New("failed to write settings file")
)

// FsFactory returns the filesystem the settings file is read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Environ supplies the env variables visible to the settings file.
var Environ = os.Environ

// Config is the resolved settings.
type Config struct {
	StorePath     string
	TargetProcess string
	PollInterval  time.Duration
	PollTimeout   time.Duration // zero waits without limit
	FailFast      bool
}

// Default returns the settings used when there is no file.
func Default() *Config {
	return &Config{
		StorePath:     store.DefaultPath(),
		TargetProcess: liveness.DefaultTarget,
		PollInterval:  liveness.DefaultInterval,
	}
}

// file mirrors the HCL layout. Both blocks are optional.
type file struct {
	Store    *storeBlock    `hcl:"store,block"`
	Launcher *launcherBlock `hcl:"launcher,block"`
}

type storeBlock struct {
	Path string `hcl:"path,optional"`
}

type launcherBlock struct {
	TargetProcess string `hcl:"target_process,optional"`
	PollInterval  string `hcl:"poll_interval,optional"`
	PollTimeout   string `hcl:"poll_timeout,optional"`
	FailFast      bool   `hcl:"fail_fast,optional"`
}

// DefaultPath returns DefaultFileName next to the executable.
func DefaultPath() string {
	return filepath.Join(filepath.Dir(store.DefaultPath()), DefaultFileName)
}

// Load reads the settings file at path on top of Default.
// When mustExist is false a missing file yields the defaults.
func Load(ctx context.Context, fs afero.Fs, path string, mustExist bool) (*Config, error) {
	cfg := Default()

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	if !exists {
		if mustExist {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		ctxlog.Debug(ctx, "no settings file, using defaults", "path", path)

		return cfg, nil
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	var f file
	if err := hclsimple.Decode(decodeName(path), src, evalContext(), &f); err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}

	if err := f.applyTo(cfg, filepath.Dir(path)); err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}

	ctxlog.Debug(ctx, "settings loaded", "path", path, "store", cfg.StorePath, "target", cfg.TargetProcess)

	return cfg, nil
}

func (f *file) applyTo(cfg *Config, baseDir string) error {
	if f.Store != nil && f.Store.Path != "" {
		p := f.Store.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}

		cfg.StorePath = p
	}

	if f.Launcher == nil {
		return nil
	}

	if f.Launcher.TargetProcess != "" {
		cfg.TargetProcess = f.Launcher.TargetProcess
	}

	var err error

	if cfg.PollInterval, err = parseDuration("poll_interval", f.Launcher.PollInterval, cfg.PollInterval); err != nil {
		return err
	}

	if cfg.PollTimeout, err = parseDuration("poll_timeout", f.Launcher.PollTimeout, cfg.PollTimeout); err != nil {
		return err
	}

	cfg.FailFast = f.Launcher.FailFast

	return nil
}

func parseDuration(name, v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %s = %q", ErrInvalidDuration, name, v)
	}

	return d, nil
}

// decodeName picks the syntax for hclsimple, which goes by file extension.
func decodeName(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl", ".json":
		return path
	default:
		return path + ".hcl"
	}
}

func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":     cty.ObjectVal(env),
			"exe_dir": cty.StringVal(filepath.Dir(store.DefaultPath())),
		},
	}
}

// WriteDefault writes a settings file holding the default values to path.
// An existing file is only replaced when force is set.
func WriteDefault(fs afero.Fs, path string, force bool) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return errors.Join(ErrWriteConfig, err)
	}

	if exists && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(&file{
		Store: &storeBlock{Path: store.DefaultFileName},
		Launcher: &launcherBlock{
			TargetProcess: liveness.DefaultTarget,
			PollInterval:  liveness.DefaultInterval.String(),
			PollTimeout:   "0s",
		},
	}, f.Body())

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := fs.MkdirAll(dir, dirMode); err != nil {
			return errors.Join(ErrWriteConfig, err)
		}
	}

	if err := afero.WriteFile(fs, path, hclwrite.Format(f.Bytes()), fileMode); err != nil {
		return errors.Join(ErrWriteConfig, err)
	}

	return nil
}
