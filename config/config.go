/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Duration unmarshals from either a Go duration string ("90s") or a
// bare number of seconds, so older config files that wrote
// "poll_interval: 60" keep working.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler (used by
// envconfig).
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if secs, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Server is one GitHub (or GitHub Enterprise) API endpoint plus its
// credential.
type Server struct {
	Name  string `yaml:"name" env:"GITHUB_NAME,default=default"`
	URL   string `yaml:"url" env:"GITHUB_URL,default=https://api.github.com"`
	Token string `yaml:"token" env:"GITHUB_TOKEN"`
}

// Monitoring holds the reconciliation knobs.
type Monitoring struct {
	PollInterval          Duration `yaml:"poll_interval" env:"PRPATROL_POLL_INTERVAL,default=60s"`
	MaxConcurrentRequests int      `yaml:"max_concurrent_requests" env:"PRPATROL_MAX_CONCURRENT,default=10"`
	Repositories          []string `yaml:"repositories" env:"PRPATROL_REPOSITORIES"`
	AutoApproveActions    bool     `yaml:"auto_approve_actions" env:"PRPATROL_AUTO_APPROVE,default=true"`
	AutoFixWithCopilot    bool     `yaml:"auto_fix_with_copilot" env:"PRPATROL_AUTO_FIX,default=true"`
	StaleAfter            Duration `yaml:"stale_after" env:"PRPATROL_STALE_AFTER,default=24h"`
}

// Analysis configures the optional side-channel analyzers.
type Analysis struct {
	// Analyzers names the enabled implementations: "claude", "openai".
	Analyzers   []string `yaml:"analyzers" env:"PRPATROL_ANALYZERS"`
	ClaudeModel string   `yaml:"claude_model" env:"PRPATROL_CLAUDE_MODEL,default=claude-sonnet-4-5"`
	OpenAIModel string   `yaml:"openai_model" env:"PRPATROL_OPENAI_MODEL,default=gpt-4o"`
}

// Config is the full prpatrol configuration.
type Config struct {
	Servers     []Server   `yaml:"github_servers"`
	Monitoring  Monitoring `yaml:"monitoring"`
	Analysis    Analysis   `yaml:"analysis"`
	LogLevel    string     `yaml:"log_level" env:"PRPATROL_LOG_LEVEL,default=info"`
	MetricsPort int        `yaml:"metrics_port" env:"PRPATROL_METRICS_PORT,default=2112"`
}

// FromEnv builds a Config from environment variables. The primary
// server reads GITHUB_URL/GITHUB_TOKEN/GITHUB_NAME; when
// PRPATROL_SERVER_COUNT is greater than one, additional servers read
// the same names under a GITHUB_<i>_ prefix.
func FromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	var primary Server
	if err := envconfig.Process(ctx, &primary); err != nil {
		return nil, fmt.Errorf("processing primary server: %w", err)
	}
	cfg.Servers = []Server{primary}

	var extra struct {
		Count int `env:"PRPATROL_SERVER_COUNT,default=1"`
	}
	if err := envconfig.Process(ctx, &extra); err != nil {
		return nil, fmt.Errorf("processing server count: %w", err)
	}
	for i := 1; i < extra.Count; i++ {
		// The Server tags already spell out GITHUB_, so the prefixed
		// lookup reads bare names to land on GITHUB_<i>_NAME etc.
		var s struct {
			Name  string `env:"NAME,default=default"`
			URL   string `env:"URL,default=https://api.github.com"`
			Token string `env:"TOKEN"`
		}
		if err := envconfig.ProcessWith(ctx, &envconfig.Config{
			Target:   &s,
			Lookuper: envconfig.PrefixLookuper(fmt.Sprintf("GITHUB_%d_", i), envconfig.OsLookuper()),
		}); err != nil {
			return nil, fmt.Errorf("processing server %d: %w", i, err)
		}
		cfg.Servers = append(cfg.Servers, Server{Name: s.Name, URL: s.URL, Token: s.Token})
	}

	return &cfg, nil
}

// Load reads a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values from a file load with the same
// defaults the env path gets from its tags.
func (c *Config) applyDefaults() {
	if c.Monitoring.PollInterval == 0 {
		c.Monitoring.PollInterval = Duration(time.Minute)
	}
	if c.Monitoring.MaxConcurrentRequests == 0 {
		c.Monitoring.MaxConcurrentRequests = 10
	}
	if c.Monitoring.StaleAfter == 0 {
		c.Monitoring.StaleAfter = Duration(24 * time.Hour)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 2112
	}
	for i := range c.Servers {
		if c.Servers[i].Name == "" {
			c.Servers[i].Name = "default"
		}
		if c.Servers[i].URL == "" {
			c.Servers[i].URL = "https://api.github.com"
		}
	}
}

// Validate checks that the configuration can actually monitor
// something.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Servers) == 0 {
		errs = append(errs, errors.New("no GitHub servers configured"))
	}
	tokens := 0
	for _, s := range c.Servers {
		if s.Token != "" {
			tokens++
		}
	}
	if len(c.Servers) > 0 && tokens == 0 {
		errs = append(errs, errors.New("no GitHub tokens configured: set GITHUB_TOKEN or provide a config file"))
	}
	if len(c.Monitoring.Repositories) == 0 {
		errs = append(errs, errors.New("no repositories configured: set PRPATROL_REPOSITORIES (e.g. owner/repo1,owner/repo2)"))
	}
	for _, name := range c.Analysis.Analyzers {
		switch name {
		case "claude", "openai":
		default:
			errs = append(errs, fmt.Errorf("unknown analyzer %q", name))
		}
	}
	return errors.Join(errs...)
}

// Sample returns a commented example configuration file.
func Sample() string {
	return `# prpatrol configuration file
# Copy this file and customize it for your needs.

github_servers:
  - name: "public"
    url: "https://api.github.com"
    token: "${GITHUB_TOKEN}"

  # Example for GitHub Enterprise Server
  # - name: "enterprise"
  #   url: "https://github.company.com/api/v3"
  #   token: "${GITHUB_ENTERPRISE_TOKEN}"

monitoring:
  poll_interval: 60s
  max_concurrent_requests: 10
  repositories:
    - "owner/repo1"
    - "owner/repo2"
  auto_approve_actions: true
  auto_fix_with_copilot: true
  stale_after: 24h

# Optional side-channel analyzers ("claude", "openai"). Credentials
# come from ANTHROPIC_API_KEY / OPENAI_API_KEY.
analysis:
  analyzers: []

log_level: "info"
metrics_port: 2112
`
}
