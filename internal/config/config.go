// Package config loads plebai settings from a YAML file and PLEBAI_*
// environment variables, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"plebai/internal/crypto"
	"plebai/internal/domain"
)

const (
	EnvPrefix        = "PLEBAI_"
	DefaultFile      = "config.yaml"
	DefaultKeySlot   = "pleb_sk"
	defaultHomeDir   = ".plebai"
	defaultPublishTO = 10 * time.Second
)

// Config is the complete runtime configuration.
type Config struct {
	Agent           string        `yaml:"agent" env:"AGENT"`
	Relays          []string      `yaml:"relays" env:"RELAYS" envSeparator:","`
	SecretKeyMethod string        `yaml:"secret_key_method" env:"SECRET_KEY_METHOD"`
	UseWebLn        bool          `yaml:"use_webln" env:"USE_WEBLN"`
	ProviderHost    string        `yaml:"provider_host" env:"PROVIDER_HOST"`
	Home            string        `yaml:"home" env:"HOME"`
	KeySlot         string        `yaml:"key_slot" env:"KEY_SLOT"`
	Passphrase      string        `yaml:"passphrase" env:"PASSPHRASE"`
	NWCURI          string        `yaml:"nwc_uri" env:"NWC_URI"`
	BunkerURI       string        `yaml:"bunker_uri" env:"BUNKER_URI"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL"`
	PublishTimeout  time.Duration `yaml:"publish_timeout" env:"PUBLISH_TIMEOUT"`
}

// Default returns the settings used before any file or environment is read.
func Default() Config {
	home := defaultHomeDir
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, defaultHomeDir)
	}
	return Config{
		SecretKeyMethod: domain.MethodEphemeral.String(),
		Home:            home,
		KeySlot:         DefaultKeySlot,
		LogLevel:        "info",
		PublishTimeout:  defaultPublishTO,
	}
}

// Load reads path (if non-empty) over the defaults, then applies the
// environment. A missing file at path is an error; use LoadDefault to
// tolerate it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// LoadDefault loads <home>/config.yaml when it exists.
func LoadDefault(home string) (*Config, error) {
	if home == "" {
		home = Default().Home
	}
	if h := os.Getenv(EnvPrefix + "HOME"); h != "" {
		home = h
	}
	path := filepath.Join(home, DefaultFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		path = ""
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Home == Default().Home {
		cfg.Home = home
	}
	return cfg, nil
}

// Method returns the parsed secret key method.
func (c *Config) Method() (domain.SecretKeyMethod, error) {
	return domain.ParseSecretKeyMethod(c.SecretKeyMethod)
}

// Conversation returns the session settings.
func (c *Config) Conversation() (domain.ConversationConfig, error) {
	m, err := c.Method()
	if err != nil {
		return domain.ConversationConfig{}, err
	}
	return domain.ConversationConfig{
		SecretKeyMethod: m,
		UseWebLn:        c.UseWebLn,
		ProviderHost:    c.ProviderHost,
	}, nil
}

// Level returns the zerolog level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate checks the settings needed to open a conversation.
// Errors wrap domain.ErrConfiguration.
func (c *Config) Validate() error {
	if c.Agent == "" {
		return fmt.Errorf("%w: agent is required", domain.ErrConfiguration)
	}
	if _, err := crypto.ParsePublicKey(c.Agent); err != nil {
		return fmt.Errorf("%w: agent: %w", domain.ErrConfiguration, err)
	}
	if len(c.Relays) == 0 {
		return fmt.Errorf("%w: at least one relay is required", domain.ErrConfiguration)
	}
	for _, r := range c.Relays {
		if !strings.HasPrefix(r, "wss://") && !strings.HasPrefix(r, "ws://") {
			return fmt.Errorf("%w: relay %q must be a ws:// or wss:// url", domain.ErrConfiguration, r)
		}
	}
	m, err := c.Method()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if m == domain.MethodAmbientSigner && c.BunkerURI == "" {
		return fmt.Errorf("%w: secret_key_method %s needs bunker_uri", domain.ErrConfiguration, m)
	}
	if c.UseWebLn && c.NWCURI == "" {
		return fmt.Errorf("%w: use_webln needs nwc_uri", domain.ErrConfiguration)
	}
	if c.PublishTimeout < 0 {
		return fmt.Errorf("%w: publish_timeout must not be negative", domain.ErrConfiguration)
	}
	return nil
}
