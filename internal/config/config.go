// Package config loads route tables from YAML or JSON files.
//
// A route may script its transition behaviour, which makes a file enough to
// exercise the whole pipeline from the command line:
//
//	routes:
//	  - path: /admin
//	    behavior:
//	      can_activate: redirect:/login
//	      delay: 50ms
//	  - path: /users
//	    children:
//	      - path: "{id}"
//	        params:
//	          id: int
//	        behavior:
//	          reuse: params
//	          data: profile
//	          wait_for_data: true
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the top-level structure of a route table file.
type File struct {
	MaxRedirects int           `yaml:"max_redirects" json:"max_redirects"`
	Store        StoreConfig   `yaml:"store" json:"store"`
	Routes       []RouteConfig `yaml:"routes" json:"routes"`
}

// StoreConfig selects where committed locations are persisted.
type StoreConfig struct {
	// Kind is "memory" (default), "file" or "redis".
	Kind string `yaml:"kind" json:"kind"`

	// Dir is the session directory of the file store.
	Dir string `yaml:"dir" json:"dir"`

	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`

	// Redact lists regular expressions; matching query keys are masked before saving.
	Redact []string `yaml:"redact" json:"redact"`

	// EncryptionKeyEnv names an environment variable holding a base64 AES-256 key.
	// When set, locations are sealed before they reach the store.
	EncryptionKeyEnv string `yaml:"encryption_key_env" json:"encryption_key_env"`
}

// RouteConfig declares one route. Behavior is kept loose here and decoded
// separately so unknown keys can be reported.
type RouteConfig struct {
	Path     string         `yaml:"path" json:"path"`
	Name     string         `yaml:"name" json:"name"`
	Meta     map[string]any `yaml:"meta" json:"meta"`
	Behavior map[string]any `yaml:"behavior" json:"behavior"`

	// Params and Query type the location's values, e.g. {"id": "int", "tags": "[string]?"}.
	// A location that does not conform is rejected before activation.
	Params map[string]string `yaml:"params" json:"params"`
	Query  map[string]string `yaml:"query" json:"query"`

	Children []RouteConfig `yaml:"children" json:"children"`
}

// Load reads a route table from path. Files ending in .json are parsed as JSON,
// anything else as YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// Parse decodes a route table.
func Parse(data []byte, isJSON bool) (*File, error) {
	var f File
	if isJSON {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse route table (json): %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse route table (yaml): %w", err)
		}
	}
	if f.Store.Kind == "" {
		f.Store.Kind = "memory"
	}
	return &f, nil
}
