package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound      = errors.New("configuration file not found")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
	ErrInvalidYAML       = errors.New("invalid YAML syntax")
	ErrInvalidTOML       = errors.New("invalid TOML syntax")
)

const (
	// EnvConfig names the configuration file explicitly.
	EnvConfig = "ROUTESTORE_CONFIG"
)

// SearchFiles are the file names looked up in the working directory when no
// configuration file is named.
var SearchFiles = []string{"routestore.yaml", "routestore.yml", "routestore.toml"}

// Config is the root routestore configuration.
type Config struct {
	Store   StoreConfig   `json:"store" yaml:"store" toml:"store"`
	Logging LoggingConfig `json:"logging" yaml:"logging" toml:"logging"`

	// path is the file this configuration was loaded from, if any.
	path string
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Load reads the configuration file at path. The extension selects the parser.
// An empty file yields an empty configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes configuration data in the given format ("yaml" or "toml").
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return &cfg, nil
	}

	switch format {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTOML, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &cfg, nil
}

// Find returns the configuration file to use: $ROUTESTORE_CONFIG if set,
// otherwise the first of SearchFiles present in dir. It returns "" when
// there is none.
func Find(dir string) (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		return p, nil
	}
	for _, name := range SearchFiles {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", nil
}

// LoadDefault loads the file Find picks in the working directory, or returns
// an empty configuration if there is none.
func LoadDefault() (*Config, error) {
	path, err := Find(".")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &Config{}, nil
	}
	return Load(path)
}

// Finalize applies defaults, environment overrides, then each overlay in
// order, and validates the result.
func (c *Config) Finalize(overlays ...*Config) error {
	c.Store.loadDefaults()
	c.Logging.loadDefaults()

	if err := c.Store.loadEnv(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	c.Logging.loadEnv()

	for _, o := range overlays {
		if o != nil {
			c.Merge(o)
		}
	}

	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Logging.validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Store.Merge(&overlay.Store)
	c.Logging.Merge(&overlay.Logging)
}

// Encode renders the configuration in the given format ("yaml" or "toml").
func (c *Config) Encode(format string) ([]byte, error) {
	switch format {
	case "yaml", "":
		return yaml.Marshal(c)
	case "toml":
		return toml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}
