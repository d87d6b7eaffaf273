// Package decode reads structured files by extension: YAML, TOML, JSON and
// JSON with comments.
package decode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/muhammadmuzzammil1998/jsonc"
	"gopkg.in/yaml.v3"
)

// Extensions lists the supported file extensions in lookup order.
var Extensions = []string{".yaml", ".yml", ".toml", ".json", ".jsonc"}

// Supported reports whether path has a supported extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// File decodes the file at path into dest.
func File(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := Bytes(filepath.Ext(path), data, dest); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}

// Bytes decodes data in the format named by ext (".yaml", ".toml", ...).
func Bytes(ext string, data []byte, dest any) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, dest)
	case ".toml":
		return toml.Unmarshal(data, dest)
	case ".json":
		return json.Unmarshal(data, dest)
	case ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), dest)
	}
	return errors.Newf("unsupported file extension %q", ext)
}
