// Package storage implements whole-document JSON persistence: every mutation
// loads a full document, applies the change in memory, and rewrites the file.
// Writes go through a temp file and rename so a crashed save never leaves a
// half-written document behind.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return nil
}

func documentPath(dir, name string) string {
	return filepath.Join(dir, name)
}
