package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	Scrape ScrapeConfig

	// Run notifications. Empty KafkaBrokers disables the notifier.
	KafkaBrokers []string
	KafkaTopic   string
}

// ScrapeConfig describes the forecast point and where its artifacts land.
type ScrapeConfig struct {
	ProjectID string `env:"PROJECT_ID,default=nws-dwml-etl"`
	Bucket    string `env:"GCS_BUCKET,default=nws-dwml-forecasts"`
	RawPrefix string `env:"RAW_PREFIX,default=nws_raw/"`
	CSVPrefix string `env:"CSV_PREFIX,default=nws_flat/"`

	// StorageEndpoint points the storage client at an emulator such as
	// fake-gcs-server. Requests to it are unauthenticated.
	StorageEndpoint string `env:"GCS_ENDPOINT"`

	Lat      float64 `env:"LAT,default=41.94"`
	Lon      float64 `env:"LON,default=-72.685"`
	FcstType string  `env:"FCST_TYPE,default=digitalDWML"`

	UserAgent        string        `env:"USER_AGENT,default=nws-dwml-etl/1.0 (ops@nws-dwml-etl.dev)"`
	ForecastBaseURL  string        `env:"FORECAST_BASE_URL,default=https://forecast.weather.gov/MapClick.php"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT,default=60s"`
	FetchMinInterval time.Duration `env:"FETCH_MIN_INTERVAL,default=0s"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	if err := checkScrapeSyntax(); err != nil {
		return nil, err
	}

	var scrape ScrapeConfig
	if err := envconfig.Process(context.Background(), &scrape); err != nil {
		return nil, fmt.Errorf("process scrape config: %w", err)
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		Scrape:          scrape,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "nws-dwml-runs"),
	}

	if err := cfg.Scrape.validate(); err != nil {
		return nil, err
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// checkScrapeSyntax rejects malformed numeric and duration variables before
// decoding, since envconfig reports the struct field rather than the variable.
func checkScrapeSyntax() error {
	for _, name := range []string{"LAT", "LON"} {
		if raw := os.Getenv(name); raw != "" {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, raw, err)
			}
		}
	}
	for _, name := range []string{"FETCH_TIMEOUT", "FETCH_MIN_INTERVAL"} {
		if raw := os.Getenv(name); raw != "" {
			if _, err := time.ParseDuration(raw); err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, raw, err)
			}
		}
	}
	return nil
}

func (s ScrapeConfig) validate() error {
	switch {
	case s.Bucket == "":
		return errors.New("GCS_BUCKET is required")
	case s.UserAgent == "":
		return errors.New("USER_AGENT is required")
	case s.Lat < -90 || s.Lat > 90:
		return fmt.Errorf("invalid LAT %v: must be within [-90, 90]", s.Lat)
	case s.Lon < -180 || s.Lon > 180:
		return fmt.Errorf("invalid LON %v: must be within [-180, 180]", s.Lon)
	case s.FetchTimeout <= 0:
		return errors.New("invalid FETCH_TIMEOUT: must be positive")
	case s.FetchMinInterval < 0:
		return errors.New("invalid FETCH_MIN_INTERVAL: must not be negative")
	}
	if _, err := url.Parse(s.ForecastBaseURL); err != nil {
		return fmt.Errorf("invalid FORECAST_BASE_URL: %w", err)
	}
	return nil
}

// NotifierEnabled reports whether run notifications should be published.
func (c *Config) NotifierEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// ForecastURL renders the point-forecast URL for the configured location.
func (s ScrapeConfig) ForecastURL() string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(s.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(s.Lon, 'f', -1, 64))
	q.Set("unit", "0")
	q.Set("lg", "english")
	q.Set("FcstType", s.FcstType)
	return s.ForecastBaseURL + "?" + q.Encode()
}
