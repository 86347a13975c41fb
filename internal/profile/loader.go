// Package profile reads and validates the configuration document that drives
// inventory generation.
package profile

import (
	_ "embed"
	"os"

	"sigs.k8s.io/yaml"
)

//go:embed default.yaml
var defaultDocument []byte

// DefaultDocument returns the embedded default configuration document.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// Default parses the embedded default document.
func Default() (*Config, error) {
	return Parse(defaultDocument)
}

// Load reads and validates the configuration document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewErrInvalidConfiguration("reading %s: %v", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML (or JSON) document over the defaults and validates the result.
// Keys absent from the document keep their default; an explicit value, zero included,
// always wins. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := withDefaults()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, NewErrInvalidConfiguration("decoding document: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the document back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func withDefaults() *Config {
	return &Config{
		VCenterScope:                 VCenterPerRegion,
		ReferenceDate:                "2024-06-30",
		DatastoresPerCluster:         Range{Min: 4, Max: 8},
		NICsPerHost:                  4,
		VirtualSwitchesPerDatacenter: 1,
		Network: NetworkLayout{
			VLANBase: 1000,
			Uplinks:  4,
			MTU:      9000,
		},
	}
}
