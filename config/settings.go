package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are process-level options read from the environment
type Settings struct {
	LogLevel    string `env:"PLANET_LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"PLANET_LOG_FILE" envDefault:"planet.log"`
	CatalogFile string `env:"PLANET_CATALOG"`
	HistoryFile string `env:"PLANET_HISTORY" envDefault:"planet_runs.db"`
	Mute        bool   `env:"PLANET_MUTE" envDefault:"false"`
}

// LoadSettings parses Settings from the environment
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
