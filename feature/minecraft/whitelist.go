package minecraft

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"whitelist-sync/core/reconcile"
)

// EncodeWhitelist renders the snapshot the way the server writes whitelist.json.
func EncodeWhitelist(entries []reconcile.SnapshotEntry) ([]byte, error) {
	if entries == nil {
		entries = []reconcile.SnapshotEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode whitelist: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteWhitelist replaces the whitelist at path with entries. The file is
// written to a temporary sibling first and renamed over the old one, so the
// server never observes a partial file. It returns the bytes written.
func WriteWhitelist(path string, entries []reconcile.SnapshotEntry) ([]byte, error) {
	data, err := EncodeWhitelist(entries)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".whitelist-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp whitelist in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write whitelist: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to sync whitelist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close whitelist: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return nil, fmt.Errorf("failed to set whitelist permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return nil, fmt.Errorf("failed to replace whitelist %s: %w", path, err)
	}

	return data, nil
}
