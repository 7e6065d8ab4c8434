// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultFileName is the store file created next to the executable.
const DefaultFileName = "command.json"

const (
	fileMode = 0o644
	dirMode  = 0o755
)

var (
	// ErrReadStore is returned when the store file cannot be read.
	ErrReadStore = errors.New("failed to read command store")
	// ErrDecodeStore is returned when the store file is not a valid command list.
	ErrDecodeStore = errors.New("failed to parse command store")
	// ErrEncodeStore is returned when the store cannot be serialised.
	ErrEncodeStore = errors.New("failed to serialise command store")
	// ErrWriteStore is returned when the store file cannot be written.
	ErrWriteStore = errors.New("failed to write command store")
)

// FsFactory returns the filesystem used for persistence and classification.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// DefaultPath returns DefaultFileName in the directory of the running executable,
// or in the working directory when that cannot be determined.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// Load reads the store at path.
// A missing file is not an error: an empty store is written to path and returned.
func Load(fs afero.Fs, path string) (*Store, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.Join(ErrReadStore, err)
	}

	if !exists {
		s := New()
		if err := Save(fs, path, s); err != nil {
			return nil, err
		}

		return s, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Join(ErrReadStore, err)
	}

	s, err := Unmarshal(data, FormatFor(path))
	if err != nil {
		return nil, errors.Join(ErrDecodeStore, err)
	}

	return s, nil
}

// Save writes s to path, creating the parent directory when needed.
// The lanes are written as they are; callers that changed the working list use Build first.
func Save(fs afero.Fs, path string, s *Store) error {
	data, err := Marshal(s, FormatFor(path))
	if err != nil {
		return errors.Join(ErrEncodeStore, err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := fs.MkdirAll(dir, dirMode); err != nil {
			return errors.Join(ErrWriteStore, err)
		}
	}

	if err := afero.WriteFile(fs, path, data, fileMode); err != nil {
		return errors.Join(ErrWriteStore, err)
	}

	return nil
}
