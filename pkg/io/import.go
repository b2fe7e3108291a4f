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

	"github.com/matzehuels/nodemap/pkg/errors"
)

// Format is a definition file encoding.
type Format string

// Supported definition formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported definition formats.
var Formats = []string{string(FormatTOML), string(FormatYAML), string(FormatJSON)}

// FormatFromPath infers the definition format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported definition file %q (use .toml, .yaml, .yml or .json)", filepath.Base(path))
}

// Read decodes a definition from r in the given format. Read does not close r.
func Read(r io.Reader, format Format) (*Definition, error) {
	switch format {
	case FormatTOML:
		return ReadTOML(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatJSON:
		return ReadJSON(r)
	}
	return nil, errors.ValidateFormat(string(format), Formats)
}

// ReadTOML decodes a TOML definition.
func ReadTOML(r io.Reader) (*Definition, error) {
	var def Definition
	if _, err := toml.NewDecoder(r).Decode(&def); err != nil {
		return nil, decodeError(err)
	}
	return &def, nil
}

// ReadYAML decodes a YAML definition. An empty document yields an empty
// definition.
func ReadYAML(r io.Reader) (*Definition, error) {
	var def Definition
	if err := yaml.NewDecoder(r).Decode(&def); err != nil && err != io.EOF {
		return nil, decodeError(err)
	}
	return &def, nil
}

// ReadJSON decodes a JSON definition.
func ReadJSON(r io.Reader) (*Definition, error) {
	var def Definition
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, decodeError(err)
	}
	return &def, nil
}

// Import reads the definition file at path, choosing the decoder from its
// extension.
func Import(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "definition file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	def, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func decodeError(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidDefinition, err, "decode definition")
}
