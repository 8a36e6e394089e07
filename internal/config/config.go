package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName is the application name used for keyring and config
const AppName = "icdtree"

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "ICDTREE_"

// Config holds CLI configuration
type Config struct {
	Source         string `yaml:"source,omitempty"` // nlm, tsv, postgres, none
	NLMBaseURL     string `yaml:"nlm_base_url,omitempty"`
	LookupTimeout  string `yaml:"lookup_timeout,omitempty"`
	TSVPath        string `yaml:"tsv_path,omitempty"`
	PostgresDSN    string `yaml:"postgres_dsn,omitempty"`
	PostgresTable  string `yaml:"postgres_table,omitempty"`
	CacheSize      int    `yaml:"cache_size,omitempty"`
	Format         string `yaml:"format,omitempty"` // json, xml, yaml, both, all
	OutputDir      string `yaml:"output_dir,omitempty"`
	S3Endpoint     string `yaml:"s3_endpoint,omitempty"`
	S3Region       string `yaml:"s3_region,omitempty"`
	S3AccessKey    string `yaml:"s3_access_key,omitempty"`
	S3SecretKey    string `yaml:"s3_secret_key,omitempty"`
	S3UseSSL       bool   `yaml:"s3_use_ssl,omitempty"`
	KeyringBackend string `yaml:"keyring_backend,omitempty"` // auto, keychain, file
	OutputFormat   string `yaml:"output_format,omitempty"`   // text, json, yaml, table
}

// SecretKeys are the config keys whose values are masked on display and may
// live in the keyring instead.
var SecretKeys = []string{"postgres_dsn", "s3_secret_key"}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureKeyringDir ensures the keyring directory exists and returns its path
func EnsureKeyringDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	keyringDir := filepath.Join(dir, "keyring")
	if err := os.MkdirAll(keyringDir, 0o700); err != nil {
		return "", fmt.Errorf("creating keyring directory: %w", err)
	}
	return keyringDir, nil
}

// LoadEnv reads .env files into the process environment. Variables that are
// already set are left alone; missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path. A missing file yields an empty
// config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Timeout parses lookup_timeout. Zero means unset.
func (c *Config) Timeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.LookupTimeout)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid lookup_timeout %q (expected a positive duration like 10s)", raw)
	}
	return d, nil
}

// field binds a config key to its struct field.
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

var fields = map[string]field{
	"source":          stringField(func(c *Config) *string { return &c.Source }),
	"nlm_base_url":    stringField(func(c *Config) *string { return &c.NLMBaseURL }),
	"tsv_path":        stringField(func(c *Config) *string { return &c.TSVPath }),
	"postgres_dsn":    stringField(func(c *Config) *string { return &c.PostgresDSN }),
	"postgres_table":  stringField(func(c *Config) *string { return &c.PostgresTable }),
	"format":          stringField(func(c *Config) *string { return &c.Format }),
	"output_dir":      stringField(func(c *Config) *string { return &c.OutputDir }),
	"s3_endpoint":     stringField(func(c *Config) *string { return &c.S3Endpoint }),
	"s3_region":       stringField(func(c *Config) *string { return &c.S3Region }),
	"s3_access_key":   stringField(func(c *Config) *string { return &c.S3AccessKey }),
	"s3_secret_key":   stringField(func(c *Config) *string { return &c.S3SecretKey }),
	"keyring_backend": stringField(func(c *Config) *string { return &c.KeyringBackend }),
	"output_format":   stringField(func(c *Config) *string { return &c.OutputFormat }),
	"lookup_timeout": {
		get: func(c *Config) string { return c.LookupTimeout },
		set: func(c *Config, v string) error {
			prev := c.LookupTimeout
			c.LookupTimeout = v
			if _, err := c.Timeout(); err != nil {
				c.LookupTimeout = prev
				return err
			}
			return nil
		},
	},
	"cache_size": {
		get: func(c *Config) string {
			if c.CacheSize == 0 {
				return ""
			}
			return strconv.Itoa(c.CacheSize)
		},
		set: func(c *Config, v string) error {
			if v == "" {
				c.CacheSize = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid cache_size %q (expected a non-negative integer)", v)
			}
			c.CacheSize = n
			return nil
		},
	},
	"s3_use_ssl": {
		get: func(c *Config) string {
			if !c.S3UseSSL {
				return ""
			}
			return "true"
		},
		set: func(c *Config, v string) error {
			if v == "" {
				c.S3UseSSL = false
				return nil
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid s3_use_ssl %q (expected true or false)", v)
			}
			c.S3UseSSL = b
			return nil
		},
	},
}

// Keys lists the supported config keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as text.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return f.get(c), nil
}

// Set assigns key, validating typed values.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	return f.set(c, strings.TrimSpace(value))
}

// Unset clears key.
func (c *Config) Unset(key string) error {
	return c.Set(key, "")
}

// IsSecret reports whether key holds a credential.
func IsSecret(key string) bool {
	for _, k := range SecretKeys {
		if k == key {
			return true
		}
	}
	return false
}
