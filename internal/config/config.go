// Package config loads and persists the junefeed configuration.
//
// The feed list lives in a YAML file under the user's config directory.
// It is loaded once at startup and read-only afterwards, except for the
// explicit AddFeed/RemoveFeed operations which persist immediately.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// Feed is one configured remote source.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config holds the configured feeds, in file order, plus resolved paths
// for the config and history files.
type Config struct {
	Feeds []Feed `yaml:"feeds"`

	ConfigPath  string `yaml:"-"`
	HistoryPath string `yaml:"-"`
}

// Load reads the config file at path, creating an empty one if it does
// not exist yet. An empty path uses the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := &Config{
		ConfigPath:  path,
		HistoryPath: DefaultHistoryPath(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.Save(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config back to its file.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.ConfigPath), 0755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath, data, 0644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// AddFeed appends a feed and persists the change. Names are unique within
// the set.
func (c *Config) AddFeed(name, url string) error {
	for _, f := range c.Feeds {
		if f.Name == name {
			return fmt.Errorf("feed %q already exists", name)
		}
	}
	c.Feeds = append(c.Feeds, Feed{Name: name, URL: url})
	return c.Save()
}

// RemoveFeed deletes the named feed and persists the change.
func (c *Config) RemoveFeed(name string) error {
	for i, f := range c.Feeds {
		if f.Name == name {
			c.Feeds = append(c.Feeds[:i], c.Feeds[i+1:]...)
			return c.Save()
		}
	}
	return fmt.Errorf("feed %q not found", name)
}
