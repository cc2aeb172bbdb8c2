package fuzzy

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/simpilot/assetlink/pkg/errors"
)

// recordFile is the on-disk shape of a record export.
type recordFile struct {
	Records []Record `json:"records" yaml:"records"`
}

// LoadRecords reads the records a reviewer can choose from, from a YAML or
// JSON file of the form {records: [...]}.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	format := "yaml"
	if filepath.Ext(path) == ".json" {
		format = "json"
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParseError(format, path, "empty document", nil)
	}
	var file recordFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse(format, path, err)
	}
	for i, r := range file.Records {
		if r.UID == "" {
			return nil, errors.NewValidationError("records.uid", i, "cannot be empty")
		}
	}
	return file.Records, nil
}
