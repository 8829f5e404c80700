package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func unmarshal(ext string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	var err error
	switch normalizeExt(ext) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &raw)
	case "json":
		err = json.Unmarshal(data, &raw)
	case "toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func marshal(ext string, cfg Config) ([]byte, error) {
	switch normalizeExt(ext) {
	case "yaml", "yml":
		return yaml.Marshal(cfg)
	case "json":
		return json.MarshalIndent(cfg, "", "  ")
	case "toml":
		return toml.Marshal(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
}

// Write saves cfg to path in the format matching its extension.
// It never overwrites: an existing file fails with an error wrapping fs.ErrExist.
func Write(path string, cfg Config) error {
	data, err := marshal(filepath.Ext(path), cfg)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	return f.Close()
}
