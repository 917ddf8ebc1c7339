package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/nmlgraph/internal/collection"
	"github.com/handiism/nmlgraph/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Collection settings
	CollectionPath string `json:"collection_path" yaml:"collection_path"`
	AlbumIdentity  string `json:"album_identity" yaml:"album_identity"` // title, artist-title
	ReportSkipped  bool   `json:"report_skipped" yaml:"report_skipped"`

	// Audit settings
	AuditWorkers int `json:"audit_workers" yaml:"audit_workers"`
	// VolumeRoots maps Traktor volume names to local mount points.
	VolumeRoots map[string]string `json:"volume_roots,omitempty" yaml:"volume_roots,omitempty"`

	// HTTP source settings
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds" yaml:"http_timeout_seconds"`
	UserAgent          string `json:"user_agent" yaml:"user_agent"`

	// Browser settings
	ThumbnailWidth  int `json:"thumbnail_width" yaml:"thumbnail_width"`
	ThumbnailHeight int `json:"thumbnail_height" yaml:"thumbnail_height"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		CollectionPath: filepath.Join(homeDir, "Documents", "Native Instruments", "Traktor", "collection.nml"),
		AlbumIdentity:  model.AlbumByTitle.String(),
		ReportSkipped:  false,

		AuditWorkers: 8,

		HTTPTimeoutSeconds: 60,
		UserAgent:          "nmlgraph/1.0",

		ThumbnailWidth:  32,
		ThumbnailHeight: 32,
	}
}

// Load reads settings from a JSON or YAML file. The format follows the file
// extension. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToAlbumIdentity converts the album_identity setting.
func (s *Settings) ToAlbumIdentity() (model.AlbumIdentity, error) {
	return model.ParseAlbumIdentity(s.AlbumIdentity)
}

// ToBuilderOptions converts settings to collection builder options.
func (s *Settings) ToBuilderOptions() ([]collection.Option, error) {
	identity, err := s.ToAlbumIdentity()
	if err != nil {
		return nil, err
	}
	return []collection.Option{collection.WithAlbumIdentity(identity)}, nil
}

// HTTPTimeout returns the HTTP source timeout. Zero or negative disables it.
func (s *Settings) HTTPTimeout() time.Duration {
	if s.HTTPTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
