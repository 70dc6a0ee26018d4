// Package config loads the optional YAML configuration file. Values from the
// file override the matching command line defaults in main.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Duration parses YAML duration strings like "12s" or "1h30m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(v)
	return nil
}

// D converts to time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// JSONSchema reports durations as strings in the generated schema.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "go duration string, e.g. 12s or 1h30m",
	}
}

// File is the on-disk configuration. Every field is optional, zero values
// mean "keep the flag or built-in default".
type File struct {
	API struct {
		URL     string   `yaml:"url" json:"url,omitempty"`
		Key     string   `yaml:"key" json:"key,omitempty"`
		Timeout Duration `yaml:"timeout" json:"timeout,omitempty"`
	} `yaml:"api" json:"api,omitempty"`

	Feed struct {
		HeartbeatTimeout Duration `yaml:"heartbeat_timeout" json:"heartbeat_timeout,omitempty"`
		CheckInterval    Duration `yaml:"check_interval" json:"check_interval,omitempty"`
		ActivePoll       Duration `yaml:"active_poll" json:"active_poll,omitempty"`
		IdlePoll         Duration `yaml:"idle_poll" json:"idle_poll,omitempty"`
	} `yaml:"feed" json:"feed,omitempty"`

	Web struct {
		Address string `yaml:"address" json:"address,omitempty"`
	} `yaml:"web" json:"web,omitempty"`

	Alerts struct {
		OnFailure    bool     `yaml:"on_failure" json:"on_failure,omitempty"`
		OnCompletion bool     `yaml:"on_completion" json:"on_completion,omitempty"`
		Destinations []string `yaml:"destinations" json:"destinations,omitempty"`

		SMTP struct {
			Host     string `yaml:"host" json:"host,omitempty"`
			Port     int    `yaml:"port" json:"port,omitempty"`
			TLS      bool   `yaml:"tls" json:"tls,omitempty"`
			StartTLS bool   `yaml:"starttls" json:"starttls,omitempty"`
			Username string `yaml:"username" json:"username,omitempty"`
			Password string `yaml:"password" json:"password,omitempty"`
		} `yaml:"smtp" json:"smtp,omitempty"`

		SlackToken    string `yaml:"slack_token" json:"slack_token,omitempty"`
		TelegramToken string `yaml:"telegram_token" json:"telegram_token,omitempty"`
	} `yaml:"alerts" json:"alerts,omitempty"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("can't read config file %s: %w", path, err)
	}

	res := &File{}
	if err := yaml.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("can't parse config file %s: %w", path, err)
	}

	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return res, nil
}

// Validate checks the fields actually present in the file.
func (f *File) Validate() error {
	if f.API.URL != "" && !strings.HasPrefix(f.API.URL, "http://") && !strings.HasPrefix(f.API.URL, "https://") {
		return fmt.Errorf("api.url must start with http:// or https://, got %q", f.API.URL)
	}

	durations := []struct {
		name string
		val  Duration
	}{
		{"api.timeout", f.API.Timeout},
		{"feed.heartbeat_timeout", f.Feed.HeartbeatTimeout},
		{"feed.check_interval", f.Feed.CheckInterval},
		{"feed.active_poll", f.Feed.ActivePoll},
		{"feed.idle_poll", f.Feed.IdlePoll},
	}
	for _, d := range durations {
		if d.val < 0 {
			return fmt.Errorf("%s can't be negative, got %v", d.name, d.val.D())
		}
	}

	for i, dest := range f.Alerts.Destinations {
		if !knownDestination(dest) {
			return fmt.Errorf("alerts destination %d: unsupported %q, expected mailto:, slack:, telegram: or http(s) url", i+1, dest)
		}
	}
	return nil
}

// knownDestination checks the destination schema against the supported notifiers.
func knownDestination(dest string) bool {
	for _, p := range []string{"mailto:", "slack:", "telegram:", "http://", "https://"} {
		if strings.HasPrefix(dest, p) {
			return true
		}
	}
	return false
}

// GenerateSchema generates a JSON schema for the File struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&File{}), nil
}
