package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Read loads a deck from a .json, .yaml or .yml file and normalizes it.
// A JSON file may also hold a bare array of slides.
func Read(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d *Deck
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		d, err = decodeYAML(data)
	default:
		d, err = Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// Decode parses editor JSON: either {"slides": [...]} or [...].
func Decode(data []byte) (*Deck, error) {
	var d Deck
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &d.Slides); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(trimmed, &d); err != nil {
		return nil, err
	}
	if err := d.Normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

func decodeYAML(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if err := d.Normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Write stores the deck as YAML or JSON depending on the extension.
func Write(d *Deck, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(d, "", "  ")
	default:
		data, err = yaml.Marshal(d)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
