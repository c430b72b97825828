package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mindriot101/whatson/internal/listing"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given
const DefaultPath = "config.json"

// Theatre is one venue whose listing page is scraped
type Theatre struct {
	Name    string `json:"name" toml:"name" yaml:"name"`
	URL     string `json:"url" toml:"url" yaml:"url"`
	RootURL string `json:"root_url" toml:"root_url" yaml:"root_url"`
	// Active defaults to true when omitted; inactive theatres are not scraped.
	Active *bool `json:"active,omitempty" toml:"active,omitempty" yaml:"active,omitempty"`
	// Markup overrides parts of the default listing markup, keyed by
	// container, heading, item, details, title, date, link or image.
	Markup map[string]string `json:"markup,omitempty" toml:"markup,omitempty" yaml:"markup,omitempty"`
}

// IsActive reports whether the theatre should be scraped
func (t Theatre) IsActive() bool {
	return t.Active == nil || *t.Active
}

// BaseURL returns the URL that relative show links resolve against: RootURL
// when set, otherwise the listing URL.
func (t Theatre) BaseURL() (*url.URL, error) {
	raw := t.RootURL
	if strings.TrimSpace(raw) == "" {
		raw = t.URL
	}
	return url.Parse(raw)
}

// ListingMarkup returns the default listing markup with this theatre's overrides applied
func (t Theatre) ListingMarkup() (listing.Markup, error) {
	return listing.DefaultMarkup().WithOverrides(t.Markup)
}

// Config is the parsed config file
type Config struct {
	Theatres []Theatre `json:"theatres" toml:"theatres" yaml:"theatres"`
}

// Format is a config file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ConfigError reports a config file that could not be loaded
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads and validates the config file at path
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("reading file: %w", err)}
	}

	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates config data
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	if err := decode(data, format, &cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parsing %s: %w", format, err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return &cfg, nil
}

func decode(data []byte, format Format, cfg *Config) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(cfg)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// Validate checks every theatre has a name, a listing URL, an absolute root URL
// if one is given and usable markup overrides
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, t := range c.Theatres {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("theatre %d: name is required", i)
		}
		if strings.TrimSpace(t.URL) == "" {
			return fmt.Errorf("theatre %q: url is required", t.Name)
		}
		if t.RootURL != "" {
			u, err := url.Parse(t.RootURL)
			if err != nil || !u.IsAbs() || u.Host == "" {
				return fmt.Errorf("theatre %q: root_url %q must be an absolute URL", t.Name, t.RootURL)
			}
		}
		if seen[t.Name] {
			return fmt.Errorf("theatre %q: listed more than once", t.Name)
		}
		seen[t.Name] = true
		if _, err := t.ListingMarkup(); err != nil {
			return fmt.Errorf("theatre %q: %w", t.Name, err)
		}
	}
	return nil
}
