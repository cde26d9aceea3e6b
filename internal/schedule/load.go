package schedule

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// Format is an instance file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported instance format %q (want .json, .yaml or .cue)", filepath.Ext(path))
	}
}

// LoadInstance reads and validates an instance file.
func LoadInstance(path string) (*Instance, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	return ParseInstance(data, format, filepath.Base(path))
}

// ParseInstance unifies raw instance data with the #Instance schema, applies
// defaults and decodes the result.
func ParseInstance(data []byte, format Format, filename string) (*Instance, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile instance schema: %w", err)
	}

	var value cue.Value
	switch format {
	case FormatJSON, FormatCUE:
		value = ctx.CompileBytes(data, cue.Filename(filename))
	case FormatYAML:
		file, err := yaml.Extract(filename, data)
		if err != nil {
			return nil, fmt.Errorf("parse yaml instance: %w", err)
		}
		value = ctx.BuildFile(file)
	default:
		return nil, fmt.Errorf("unsupported instance format %q", format)
	}
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("parse instance: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Instance")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid instance: %w", err)
	}

	var inst Instance
	if err := unified.Decode(&inst); err != nil {
		return nil, fmt.Errorf("decode instance: %w", err)
	}
	return &inst, nil
}
