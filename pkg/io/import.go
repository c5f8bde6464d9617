package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "github.com/matzehuels/facetower/pkg/errors"
)

// Format is a model fixture encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the fixture format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported fixture extension %q", filepath.Ext(path))
}

// Read decodes a model fixture in the given format from r and validates it.
//
// Unknown keys are rejected in every format so that a misspelled field does
// not silently drop geometry. Read does not close r.
func Read(r io.Reader, format Format) (*Model, error) {
	var m Model
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&m)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "decode toml: unknown key %s", keys[0])
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "unknown format %q", format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Import reads the fixture at path, choosing the decoder by extension.
func Import(path string) (*Model, error) {
	if err := ferrors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Write encodes m in the given format to w.
func Write(w io.Writer, m *Model, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(m)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(m); err == nil {
			err = enc.Close()
		}
	default:
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// Export writes m to path in the format implied by its extension.
func Export(m *Model, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, m, format)
}
