package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the service configuration loaded from YAML.
type Config struct {
	Unit   UnitConfig   `yaml:"unit"`
	Keys   []KeyConfig  `yaml:"keys"`
	Tokens TokensConfig `yaml:"tokens"`
	Server ServerConfig `yaml:"server"`
	Audit  AuditConfig  `yaml:"audit"`
}

// UnitConfig identifies the unit this deployment belongs to.
type UnitConfig struct {
	// URL is the unit root URL, used as the issuer of unit-local tokens.
	URL string `yaml:"url"`
}

// KeyConfig configures one key resolver. Config holds resolver-specific
// settings and is decoded by the resolver implementation.
type KeyConfig struct {
	// Name is a human-readable identifier for logs/debugging.
	Name string `yaml:"name"`

	// Type selects the resolver implementation (e.g. "master", "static").
	Type string `yaml:"type"`

	// Config holds arbitrary resolver-specific configuration.
	Config map[string]any `yaml:"config"`
}

// TokensConfig tunes issuance defaults and verification policy.
type TokensConfig struct {
	// AccessLifespan is the default validity window for access tokens.
	AccessLifespan time.Duration `yaml:"access_lifespan"`

	// RefreshLifespan is the default validity window for refresh tokens.
	RefreshLifespan time.Duration `yaml:"refresh_lifespan"`

	// ClockSkew is the tolerance applied when evaluating expiry at
	// verification time.
	ClockSkew time.Duration `yaml:"clock_skew"`
}

type ServerConfig struct {
	// Addr is the listen address for the HTTP API.
	Addr string `yaml:"addr"`

	// AdminToken protects the audit endpoints. Leaving it empty disables
	// them.
	AdminToken string `yaml:"admin_token"`
}

type AuditConfig struct {
	// Type selects the auditor implementation ("memory", "noop").
	Type string `yaml:"type"`

	// MaxEntries bounds the in-memory audit history.
	MaxEntries int `yaml:"max_entries"`
}

const (
	DefaultAccessLifespan  = time.Hour
	DefaultRefreshLifespan = 24 * time.Hour
	DefaultClockSkew       = time.Minute
	DefaultAuditMaxEntries = 1000
)

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file '%s': %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file '%s': %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file '%s': %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Tokens.AccessLifespan == 0 {
		c.Tokens.AccessLifespan = DefaultAccessLifespan
	}
	if c.Tokens.RefreshLifespan == 0 {
		c.Tokens.RefreshLifespan = DefaultRefreshLifespan
	}
	if c.Tokens.ClockSkew == 0 {
		c.Tokens.ClockSkew = DefaultClockSkew
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Audit.Type == "" {
		c.Audit.Type = "memory"
	}
	if c.Audit.MaxEntries == 0 {
		c.Audit.MaxEntries = DefaultAuditMaxEntries
	}
}

func (c *Config) Validate() error {
	if c.Unit.URL == "" {
		return fmt.Errorf("unit.url is required")
	}
	if len(c.Keys) == 0 {
		return fmt.Errorf("at least one key resolver is required")
	}

	seenNames := make(map[string]struct{})
	for i, kc := range c.Keys {
		if kc.Name == "" {
			return fmt.Errorf("key resolver #%d missing name", i)
		}
		if _, exists := seenNames[kc.Name]; exists {
			return fmt.Errorf("key resolver name '%s' is not unique", kc.Name)
		}
		seenNames[kc.Name] = struct{}{}

		if kc.Type == "" {
			return fmt.Errorf("key resolver '%s' missing type", kc.Name)
		}
	}

	if c.Tokens.AccessLifespan < 0 || c.Tokens.RefreshLifespan < 0 {
		return fmt.Errorf("token lifespans must not be negative")
	}
	if c.Tokens.ClockSkew < 0 {
		return fmt.Errorf("tokens.clock_skew must not be negative")
	}

	switch c.Audit.Type {
	case "memory", "noop":
	default:
		return fmt.Errorf("unknown audit type '%s'", c.Audit.Type)
	}

	return nil
}
