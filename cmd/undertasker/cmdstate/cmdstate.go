// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the flags and helpers shared by every subcommand:
// where the settings file and the command store live, and how they are loaded and saved.
package cmdstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/undertasker/internal/config"
	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	// StoreFlag overrides the location of the command store.
	StoreFlag = "store"
	// ConfigFlag overrides the location of the settings file.
	ConfigFlag = "config"

	storeEnv  = "UNDERTASKER_STORE"
	configEnv = "UNDERTASKER_CONFIG"

	// MsgSaved is printed after a successful write of the store.
	MsgSaved = "changes saved"
	// MsgSaveFailed prefixes the error when the store could not be written.
	MsgSaveFailed = "save failed"
)

// ErrLoadSettings is returned when the settings file cannot be used.
var ErrLoadSettings = errors.New("failed to load settings")

// Flags are defined on the root command and inherited by every subcommand.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      StoreFlag,
			Aliases:   []string{"s"},
			Usage:     "Path of the command store (.json, .yaml or .yml). Defaults to command.json next to the executable.",
			Sources:   cli.EnvVars(storeEnv),
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      ConfigFlag,
			Aliases:   []string{"c"},
			Usage:     "Path of the HCL settings file. Defaults to undertasker.hcl next to the executable.",
			Sources:   cli.EnvVars(configEnv),
			TakesFile: true,
		},
	}
}

// Settings loads the settings file.
// The file is optional unless its path was given explicitly.
func Settings(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	path := config.DefaultPath()
	explicit := cmd.String(ConfigFlag) != ""

	if explicit {
		path = cmd.String(ConfigFlag)
	}

	cfg, err := config.Load(ctx, config.FsFactory(), path, explicit)
	if err != nil {
		return nil, errors.Join(ErrLoadSettings, err)
	}

	if p := cmd.String(StoreFlag); p != "" {
		cfg.StorePath = p
	}

	return cfg, nil
}

// Session is a loaded command store and where it came from.
type Session struct {
	Fs     afero.Fs
	Path   string
	Store  *store.Store
	Config *config.Config
}

// Open loads the settings and the command store.
// A missing store is created empty on disk.
func Open(ctx context.Context, cmd *cli.Command) (*Session, error) {
	cfg, err := Settings(ctx, cmd)
	if err != nil {
		return nil, err
	}

	fs := store.FsFactory()

	s, err := store.Load(fs, cfg.StorePath)
	if err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "store loaded", "path", cfg.StorePath, "entries", s.Len())

	return &Session{Fs: fs, Path: cfg.StorePath, Store: s, Config: cfg}, nil
}

// Commit rebuilds the store from working and saves it, reporting the outcome on cmd.Writer.
func (s *Session) Commit(ctx context.Context, cmd *cli.Command, working []store.Entry) error {
	s.Store = store.Build(s.Fs, working)

	if err := store.Save(s.Fs, s.Path, s.Store); err != nil {
		ctxlog.Error(ctx, MsgSaveFailed, "path", s.Path, "error", err)
		return cli.Exit(fmt.Sprintf("%s: %v", MsgSaveFailed, err), 1)
	}

	fmt.Fprintln(cmd.Writer, MsgSaved) //nolint:errcheck

	return nil
}
