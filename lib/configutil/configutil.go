package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the override file for a config file,
// "dir/kdb.json5" becomes "dir/kdb.local.json5".
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readLayer[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(contents) == 0 {
		return out, false, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, true, nil
}

// ReadConfig reads a json5 configuration file, layering (higher number wins):
// 1. defaults
// 2. <name>.<ext>
// 3. <name>.local.<ext>
// zero values in a layer never override the layer below it. missing files
// are skipped, so with no files present the defaults are returned as is.
func ReadConfig[T any](name string, defaults T) (T, error) {
	out := defaults

	for _, path := range []string{name, LocalPath(name)} {
		layer, found, err := readLayer[T](path)
		if err != nil {
			return out, err
		}
		if !found {
			continue
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merged config layer", "path", path)
	}

	return out, nil
}
