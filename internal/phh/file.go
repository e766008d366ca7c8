package phh

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the conventional name of a hand record.
func FileName(handID string) string {
	return handID + ".phh"
}

// WriteFile encodes the hand history to path. The record is written to a
// temporary file in the same directory and renamed into place, so readers
// see either no file or the complete record.
func WriteFile(path string, hand *HandHistory) error {
	data, err := EncodeToBytes(hand)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	committed = true
	return nil
}

// ReadFile decodes a single hand record.
func ReadFile(path string) (*HandHistory, error) {
	var hand HandHistory
	if _, err := toml.DecodeFile(path, &hand); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &hand, nil
}
