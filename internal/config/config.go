// Package config handles configuration loading for the resolver's
// command-line and batch front ends.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax), so deployment-specific
// values like DNS servers can be injected at runtime without editing the
// file.
//
// # Example Configuration
//
//	smlDomain: edelivery.tech.ec.europa.eu
//	dnsServers:
//	  - ${DNS_SERVER}:53
//	httpTimeout: 30s
//	userAgent: smp-resolver-ng/1.0
//
// See [Load] for loading configuration from a file. The core resolver
// itself is constructed from a resolver.Config value built by the caller
// from the loaded Config — it never reads files directly.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the resolver's
// recognized options.
type Config struct {
	// SMLDomain is the root SML zone.
	SMLDomain string `yaml:"smlDomain"`

	// DNSServers is an ordered list of recursive resolvers in
	// "host:port" form. Empty means use the system resolver.
	DNSServers []string `yaml:"dnsServers"`

	// HTTPTimeout bounds main ServiceGroup/ServiceMetadata fetches.
	HTTPTimeout time.Duration `yaml:"httpTimeout"`

	// CacheTTL is reserved for future use; it is parsed and validated
	// but does not affect any in-memory cache today.
	CacheTTL time.Duration `yaml:"cacheTTL"`

	// UserAgent is sent on every outbound HTTP request.
	UserAgent string `yaml:"userAgent"`
}

// Load reads configuration from a YAML file, expanding ${VAR}/$VAR
// references against the process environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SMLDomain == "" {
		c.SMLDomain = "edelivery.tech.ec.europa.eu"
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 30 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "smp-resolver-ng/1.0"
	}
}

func (c *Config) validate() error {
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("httpTimeout must not be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cacheTTL must not be negative")
	}
	for _, server := range c.DNSServers {
		if server == "" {
			return fmt.Errorf("dnsServers entries must not be empty")
		}
	}
	return nil
}
