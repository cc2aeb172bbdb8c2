package assets

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/simpilot/assetlink/pkg/errors"
)

// Bundle is the parsed output of a spreadsheet import: every cell, robot and
// tool of one linking run.
type Bundle struct {
	Cells  []Cell   `json:"cells" yaml:"cells"`
	Robots []*Robot `json:"robots" yaml:"robots"`
	Tools  []*Tool  `json:"tools" yaml:"tools"`
}

// LoadBundle reads a YAML or JSON bundle from disk. Records without a
// SourceFile inherit the bundle's base name.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	bundle, err := DecodeBundle(data, formatOf(path))
	if err != nil {
		if pe, ok := err.(*errors.ParseError); ok {
			pe.File = path
		}
		return nil, err
	}
	bundle.stampSource(filepath.Base(path))
	return bundle, nil
}

// LoadBundleFS reads a bundle from an fs.FS, typically testdata.
func LoadBundleFS(fsys fs.FS, name string) (*Bundle, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	bundle, err := DecodeBundle(data, formatOf(name))
	if err != nil {
		return nil, err
	}
	bundle.stampSource(filepath.Base(name))
	return bundle, nil
}

// DecodeBundle decodes bundle bytes. format is "yaml" or "json"; JSON is
// decoded through the YAML decoder, which accepts it as a subset.
func DecodeBundle(data []byte, format string) (*Bundle, error) {
	switch format {
	case "yaml", "json":
	default:
		return nil, errors.WrapValidation("format", errors.ErrUnsupportedFormat)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParseError(format, "", "empty document", nil)
	}

	var bundle Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, errors.WrapParse(format, "", err)
	}

	for i, r := range bundle.Robots {
		if r == nil {
			return nil, errors.NewValidationError("robots", i, "empty robot entry")
		}
	}
	for i, t := range bundle.Tools {
		if t == nil {
			return nil, errors.NewValidationError("tools", i, "empty tool entry")
		}
	}
	return &bundle, nil
}

func (b *Bundle) stampSource(name string) {
	for _, r := range b.Robots {
		if r.SourceFile == "" {
			r.SourceFile = name
		}
	}
	for _, t := range b.Tools {
		if t.SourceFile == "" {
			t.SourceFile = name
		}
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "yaml"
	}
}
