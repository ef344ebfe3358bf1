package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
)

// ConsoleConfig configures the front-desk console process.
//
// The fitness-center id and backend token are deployment-provided; the check-in core
// receives them explicitly and never reads the environment itself.
type ConsoleConfig struct {
	Port string `env:"PORT" envDefault:"8080"`

	BackendBaseURL     string        `env:"BACKEND_BASE_URL,required,notEmpty"`
	BackendToken       string        `env:"BACKEND_TOKEN"`
	BackendHTTPTimeout time.Duration `env:"BACKEND_HTTP_TIMEOUT" envDefault:"10s"`

	FitnessCenterID int64  `env:"FITNESS_CENTER_ID,required,notEmpty"`
	GymTimezone     string `env:"GYM_TIMEZONE" envDefault:"UTC"`
}

func LoadConsoleConfigFromEnv() (ConsoleConfig, error) {
	var cfg ConsoleConfig
	if err := ParseEnv(&cfg); err != nil {
		return ConsoleConfig{}, err
	}
	if cfg.FitnessCenterID <= 0 {
		return ConsoleConfig{}, errors.New("FITNESS_CENTER_ID must be a positive integer")
	}
	if cfg.BackendHTTPTimeout <= 0 {
		return ConsoleConfig{}, errors.New("BACKEND_HTTP_TIMEOUT must be a positive duration (e.g. 10s)")
	}
	if _, err := cfg.Location(); err != nil {
		return ConsoleConfig{}, err
	}
	return cfg, nil
}

func (c ConsoleConfig) CenterID() domain.FitnessCenterID {
	return domain.FitnessCenterID(c.FitnessCenterID)
}

// Location resolves GYM_TIMEZONE; it decides which calendar day "today" is on the roster.
func (c ConsoleConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.GymTimezone)
	if err != nil {
		return nil, fmt.Errorf("GYM_TIMEZONE must be an IANA time zone name: %w", err)
	}
	return loc, nil
}

// StubBackendConfig configures the local stub backend.
type StubBackendConfig struct {
	Port            string `env:"STUB_BACKEND_PORT" envDefault:"8090"`
	FitnessCenterID int64  `env:"FITNESS_CENTER_ID" envDefault:"1"`
	GymTimezone     string `env:"GYM_TIMEZONE" envDefault:"UTC"`
	// SearchOmitsBilling mimics the production search endpoint, which leaves billing fields out.
	SearchOmitsBilling bool `env:"STUB_SEARCH_OMITS_BILLING" envDefault:"true"`
}

func LoadStubBackendConfigFromEnv() (StubBackendConfig, error) {
	var cfg StubBackendConfig
	if err := ParseEnv(&cfg); err != nil {
		return StubBackendConfig{}, err
	}
	if _, err := time.LoadLocation(cfg.GymTimezone); err != nil {
		return StubBackendConfig{}, fmt.Errorf("GYM_TIMEZONE must be an IANA time zone name: %w", err)
	}
	return cfg, nil
}
