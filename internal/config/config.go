// Package config loads adview's runtime configuration from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

const (
	// DefaultAPIURL is the ad-serving API base URL.
	DefaultAPIURL = "https://app.specify.sh/api"
	// DefaultAssetsURL is the base URL campaign images are served from.
	DefaultAssetsURL = "https://assets.specify.sh/campaign-images"
)

// ErrMissingPublisherKey is returned when no publisher key is configured.
var ErrMissingPublisherKey = errors.New("publisher key is not set")

// Config is the explicit runtime configuration injected at startup.
type Config struct {
	PublisherKey string
	APIURL       string
	AssetsURL    string
	Timeout      time.Duration
	WalletFile   string
}

type rawEnv struct {
	PublisherKey     string        `env:"SPECIFY_PUBLISHER_KEY"`
	VitePublisherKey string        `env:"VITE_SPECIFY_PUBLISHER_KEY"`
	APIURL           string        `env:"SPECIFY_API_URL" envDefault:"https://app.specify.sh/api"`
	AssetsURL        string        `env:"SPECIFY_ASSETS_URL" envDefault:"https://assets.specify.sh/campaign-images"`
	Timeout          time.Duration `env:"SPECIFY_TIMEOUT" envDefault:"10s"`
	WalletFile       string        `env:"ADVIEW_WALLET_FILE"`
}

// Load parses the process environment, after filling it from a .env file
// in the working directory when one exists. It fails when no publisher key
// is configured.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse is Load without the publisher key check.
func Parse() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return fromRaw(raw)
}

// LoadFrom parses the given environment instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var raw rawEnv
	if err := env.ParseWithOptions(&raw, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	cfg, err := fromRaw(raw)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports a missing publisher key.
func (c Config) Validate() error {
	if c.PublisherKey == "" {
		return errors.WithHint(ErrMissingPublisherKey,
			"set SPECIFY_PUBLISHER_KEY in the environment or in a .env file")
	}
	return nil
}

func fromRaw(raw rawEnv) (Config, error) {
	key := strings.TrimSpace(raw.PublisherKey)
	if key == "" {
		key = strings.TrimSpace(raw.VitePublisherKey)
	}
	if raw.APIURL == "" {
		raw.APIURL = DefaultAPIURL
	}
	if raw.AssetsURL == "" {
		raw.AssetsURL = DefaultAssetsURL
	}
	if raw.Timeout <= 0 {
		return Config{}, errors.Newf("invalid SPECIFY_TIMEOUT %s: must be positive", raw.Timeout)
	}

	return Config{
		PublisherKey: key,
		APIURL:       strings.TrimRight(raw.APIURL, "/"),
		AssetsURL:    strings.TrimRight(raw.AssetsURL, "/"),
		Timeout:      raw.Timeout,
		WalletFile:   raw.WalletFile,
	}, nil
}

// MaskedKey returns the publisher key with all but its last four characters hidden.
func (c Config) MaskedKey() string {
	const visible = 4
	if len(c.PublisherKey) <= visible {
		return strings.Repeat("*", len(c.PublisherKey))
	}
	return strings.Repeat("*", len(c.PublisherKey)-visible) + c.PublisherKey[len(c.PublisherKey)-visible:]
}
