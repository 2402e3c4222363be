package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/rolejoin/config"
	ConfigFileName    = "rolejoin.yml"
)

// Config holds all rolejoin configuration settings
type Config struct {
	// Backend selects the storage backend (memory, sqlite, postgres)
	Backend Backend `yaml:"backend" json:"backend"`

	// DatabaseURL is the sqlite DSN or postgres connection URL.
	// For the memory backend it names the shared in-memory database.
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// SeedFile is an optional YAML fixture loaded by seed and server
	SeedFile string `yaml:"seed_file" json:"seed_file"`

	// BindAddress is the HTTP server bind address
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP server port
	Port int `yaml:"port" json:"port"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig is the config file layout. Pointer fields tell an absent key
// from a zero value.
type fileConfig struct {
	Backend     *Backend `yaml:"backend"`
	DatabaseURL string   `yaml:"database_url"`
	LogLevel    string   `yaml:"log_level"`
	SeedFile    string   `yaml:"seed_file"`
	BindAddress string   `yaml:"bind_address"`
	Port        int      `yaml:"port"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		Backend:     BackendMemory,
		DatabaseURL: "",
		LogLevel:    "info",
		SeedFile:    "",
		BindAddress: "0.0.0.0",
		Port:        8000,
		sources:     make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("ROLEJOIN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"backend", "database_url", "log_level", "seed_file", "bind_address", "port",
	}
}

func (c *Config) applyFileConfig(file *fileConfig) {
	if file.Backend != nil {
		c.Backend = *file.Backend
		c.sources["backend"] = "file"
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.SeedFile != "" {
		c.SeedFile = file.SeedFile
		c.sources["seed_file"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
}

func (c *Config) applyEnvConfig() error {
	if val := os.Getenv("ROLEJOIN_BACKEND"); val != "" {
		b, err := parseBackend(val)
		if err != nil {
			return fmt.Errorf("ROLEJOIN_BACKEND: %w", err)
		}
		c.Backend = b
		c.sources["backend"] = "environment"
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("ROLEJOIN_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("ROLEJOIN_SEED_FILE"); val != "" {
		c.SeedFile = val
		c.sources["seed_file"] = "environment"
	}
	if val := os.Getenv("BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	return nil
}

func parseBackend(value string) (Backend, error) {
	b, err := BackendString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid backend: %s", value)
	}
	return b, nil
}

// Override sets an attribute from a command line flag
func (c *Config) Override(name, value string) error {
	switch name {
	case "backend":
		b, err := parseBackend(value)
		if err != nil {
			return err
		}
		c.Backend = b
	case "database_url":
		c.DatabaseURL = value
	case "log_level":
		c.LogLevel = value
	case "seed_file":
		c.SeedFile = value
	case "bind_address":
		c.BindAddress = value
	case "port":
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port: %s", value)
		}
		c.Port = i
	default:
		return fmt.Errorf("unknown configuration attribute: %s", name)
	}
	if c.sources == nil {
		c.sources = make(map[string]string)
	}
	c.sources[name] = "flag"
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.Backend.IsABackend() {
		return fmt.Errorf("invalid backend: %s", c.Backend)
	}

	if c.Backend == BackendPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "backend", Value: c.Backend.String(), Source: c.Source("backend")},
		{Name: "database_url", Value: redactDSN(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "seed_file", Value: c.SeedFile, Source: c.Source("seed_file")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var dsnPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// redactDSN hides the password of a connection URL or a key=value DSN
func redactDSN(raw string) string {
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil {
			if q := u.Query(); q.Has("password") {
				q.Set("password", "xxxxx")
				u.RawQuery = q.Encode()
			}
			return u.Redacted()
		}
	}
	return dsnPassword.ReplaceAllString(raw, "${1}xxxxx")
}
