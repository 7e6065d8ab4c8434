// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrInvalidTerminalEntry is returned when a terminal entry is neither a string nor a command object.
var ErrInvalidTerminalEntry = errors.New("terminal entry must be a string or an object with a command")

const jsonIndent = "  "

// Format is a serialisation of the store.
type Format int

const (
	// FormatJSON is pretty-printed JSON, the default.
	FormatJSON Format = iota
	// FormatYAML is YAML.
	FormatYAML
)

// FormatFor picks the format from the file extension. Anything that is not YAML is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal renders s in format f, terminated by a newline.
func Marshal(s *Store, f Format) ([]byte, error) {
	c := s.withLanes()

	switch f {
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		var buf bytes.Buffer

		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", jsonIndent)

		if err := enc.Encode(c); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	}
}

// marshalJSONValue is json.Marshal without HTML escaping, so shell operators
// such as && stay readable in the file.
func marshalJSONValue(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal parses data in format f. Missing or null lanes become empty.
func Unmarshal(data []byte, f Format) (*Store, error) {
	s := &Store{}

	var err error

	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, s)
	default:
		err = json.Unmarshal(data, s)
	}

	if err != nil {
		return nil, err
	}

	return s.withLanes(), nil
}

// withLanes returns s with nil lanes replaced by empty ones, so they encode as [] rather than null.
func (s *Store) withLanes() *Store {
	c := *s
	if c.File == nil {
		c.File = []string{}
	}

	if c.Windows == nil {
		c.Windows = []string{}
	}

	if c.Terminal == nil {
		c.Terminal = []TerminalEntry{}
	}

	return &c
}

// terminalObject is the wire shape of a quiet terminal entry.
type terminalObject struct {
	Command string `json:"command" yaml:"command"`
	Quiet   bool   `json:"quiet" yaml:"quiet"`
}

// MarshalJSON writes a plain string for visible entries, so files written
// before quiet mode existed keep their shape.
func (t TerminalEntry) MarshalJSON() ([]byte, error) {
	if !t.Quiet {
		return marshalJSONValue(t.Command)
	}

	return marshalJSONValue(terminalObject(t))
}

// UnmarshalJSON accepts both a plain string and a command object.
func (t *TerminalEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		t.Quiet = false

		return json.Unmarshal(data, &t.Command)
	}

	var o terminalObject
	if err := json.Unmarshal(data, &o); err != nil {
		return errors.Join(ErrInvalidTerminalEntry, err)
	}

	if o.Command == "" {
		return ErrInvalidTerminalEntry
	}

	*t = TerminalEntry(o)

	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (t TerminalEntry) MarshalYAML() (any, error) {
	if !t.Quiet {
		return t.Command, nil
	}

	return terminalObject(t), nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (t *TerminalEntry) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case string:
		*t = TerminalEntry{Command: x}
	case map[string]any:
		cmd, ok := x["command"].(string)
		if !ok || cmd == "" {
			return ErrInvalidTerminalEntry
		}

		quiet := false
		if q, present := x["quiet"]; present {
			if quiet, ok = q.(bool); !ok {
				return fmt.Errorf("%w: quiet must be a boolean", ErrInvalidTerminalEntry)
			}
		}

		*t = TerminalEntry{Command: cmd, Quiet: quiet}
	default:
		return ErrInvalidTerminalEntry
	}

	return nil
}
