// Package config provides configuration management for nmlgraph.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to collection builder options
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Reads ~/Documents/Native Instruments/Traktor/collection.nml
//	// Albums are identified by title
//	// Eight tag audit workers
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/nmlgraph.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// Files ending in .yaml or .yml are read as YAML, anything else as JSON:
//
//	collection_path: /Users/dj/Documents/Native Instruments/Traktor 3.11/collection.nml
//	album_identity: artist-title
//	volume_roots:
//	  Music: /Volumes/Music
//
// # Saving Settings
//
//	settings.AlbumIdentity = "artist-title"
//	err := settings.Save("/path/to/nmlgraph.json")
package config
