package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database      DatabaseConfig       `yaml:"database"`
	Fetch         FetchConfig          `yaml:"fetch"`
	GeoIP         GeoIPConfig          `yaml:"geoip"`
	Metrics       MetricsConfig        `yaml:"metrics"`
	Profile       ProfileConfig        `yaml:"profile"`
	Subscriptions []SubscriptionConfig `yaml:"subscriptions"`
	Publishers    []PublisherConfig    `yaml:"publishers"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type FetchConfig struct {
	Proxy     string        `yaml:"proxy"` // http:// or socks5:// proxy for collectors
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Retries   int           `yaml:"retries"`
}

type GeoIPConfig struct {
	CountryPath string `yaml:"country_path"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile target, empty disables
}

type ProfileConfig struct {
	Path string `yaml:"path"` // Where the default profile is bootstrapped
}

type SubscriptionConfig struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"` // Collector plugin
	Params map[string]interface{} `yaml:"params"`
}

type PublisherConfig struct {
	Name          string                 `yaml:"name"`
	Type          string                 `yaml:"type"`
	Subscriptions []string               `yaml:"subscriptions"`
	Params        map[string]interface{} `yaml:"params"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Database.Path = "akasha.db"
	cfg.Fetch.Timeout = 30 * time.Second
	cfg.Fetch.UserAgent = "clash.meta"
	cfg.Profile.Path = "config.yaml"
	return &cfg
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "akasha.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	seen := make(map[string]bool)
	for i := range cfg.Subscriptions {
		sub := &cfg.Subscriptions[i]
		if sub.Name == "" {
			return nil, fmt.Errorf("subscription #%d has no name", i)
		}
		if seen[sub.Name] {
			return nil, fmt.Errorf("duplicate subscription name %q", sub.Name)
		}
		seen[sub.Name] = true
		if sub.Type == "" {
			sub.Type = "http"
		}
	}

	return cfg, nil
}

func (c *Config) FilterSubscriptions(names []string) {
	if len(names) == 0 {
		return
	}
	whitelist := make(map[string]bool)
	for _, n := range names {
		whitelist[n] = true
	}
	var filtered []SubscriptionConfig
	for _, item := range c.Subscriptions {
		if whitelist[item.Name] {
			filtered = append(filtered, item)
		}
	}
	c.Subscriptions = filtered
}

func (c *Config) FilterPublishers(names []string) {
	if len(names) == 0 {
		return
	}
	whitelist := make(map[string]bool)
	for _, n := range names {
		whitelist[n] = true
	}
	var filtered []PublisherConfig
	for _, item := range c.Publishers {
		if whitelist[item.Name] {
			filtered = append(filtered, item)
		}
	}
	c.Publishers = filtered
}
