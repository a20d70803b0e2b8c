package discovery

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starford/raido/internal/models"
)

// ConfigFileName marks a directory as a document.
const ConfigFileName = ".raido.yml"

// configFile is the on-disk shape of a document configuration.
type configFile struct {
	Settings settings `yaml:"settings"`
}

type settings struct {
	Prefix  string `yaml:"prefix"`
	Parents any    `yaml:"parents,omitempty"`
	Digits  int    `yaml:"digits"`
	Sep     string `yaml:"sep"`
}

// ParseConfig decodes document configuration bytes. A single parent may be
// written as a bare string; it is normalized to a one-element list.
func ParseConfig(data []byte) (models.DocumentConfig, error) {
	var cfg models.DocumentConfig

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("invalid YAML: %w", err)
	}
	if file.Settings.Prefix == "" {
		return cfg, fmt.Errorf("missing 'prefix' setting")
	}

	cfg.Prefix = file.Settings.Prefix
	cfg.Digits = file.Settings.Digits
	if cfg.Digits == 0 {
		cfg.Digits = 3
	}
	cfg.Sep = file.Settings.Sep

	switch v := file.Settings.Parents.(type) {
	case nil:
	case string:
		cfg.Parents = []string{v}
	case []any:
		for _, p := range v {
			s, ok := p.(string)
			if !ok {
				return cfg, fmt.Errorf("parent entry is not a string: %v", p)
			}
			cfg.Parents = append(cfg.Parents, s)
		}
	default:
		return cfg, fmt.Errorf("field parents: expected string or list, got %T", v)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MarshalConfig encodes a document configuration for writing to disk.
func MarshalConfig(cfg models.DocumentConfig) ([]byte, error) {
	file := configFile{Settings: settings{
		Prefix: cfg.Prefix,
		Digits: cfg.Digits,
		Sep:    cfg.Sep,
	}}
	if len(cfg.Parents) > 0 {
		file.Settings.Parents = cfg.Parents
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("marshal config %s: %w", cfg.Prefix, err)
	}
	return data, nil
}
