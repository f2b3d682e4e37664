package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"strmsync/internal/classify"
)

var (
	DefaultRmtMediaExt = []string{
		"mp4", "mkv", "ts", "iso", "rmvb", "avi", "mov", "mpeg", "mpg",
		"wmv", "3gp", "asf", "m4v", "flv", "m2ts", "tp", "f4v",
	}
	DefaultDownloadMediaExt = []string{"srt", "ssa", "ass", "nfo"}
)

// LoadProcessConfig reads the classifier settings from a YAML or JSON file.
// Extension lists fall back to the defaults above; pan_media_dir is required.
func LoadProcessConfig(path string) (classify.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return classify.Config{}, fmt.Errorf("failed to read process config %s: %w", path, err)
	}
	return ParseProcessConfig(data)
}

func ParseProcessConfig(data []byte) (classify.Config, error) {
	var raw classify.RawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return classify.Config{}, fmt.Errorf("failed to parse process config: %w", err)
	}

	if raw.RmtMediaExt == nil {
		exts := append([]string(nil), DefaultRmtMediaExt...)
		raw.RmtMediaExt = &exts
	}
	if raw.DownloadMediaExt == nil {
		exts := append([]string(nil), DefaultDownloadMediaExt...)
		raw.DownloadMediaExt = &exts
	}

	cfg, err := raw.Resolve()
	if err != nil {
		return classify.Config{}, fmt.Errorf("invalid process config: %w", err)
	}
	return cfg, nil
}
