package config

import (
	"fmt"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type IngestConfig struct {
	EmployerIDsFile string `mapstructure:"employer_ids_file"`
	// Cron expression for periodic ingestion in serve mode, empty disables it.
	Schedule string `mapstructure:"schedule"`
}

func (config IngestConfig) validate() error {
	if config.EmployerIDsFile == "" {
		return fmt.Errorf("missing variable: employer_ids_file")
	}

	if config.Schedule != "" {
		if _, err := cron.ParseStandard(config.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", config.Schedule, err)
		}
	}

	return nil
}

func (config IngestConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("ingest.employer_ids_file", "EMPLOYER_IDS_FILE"); err != nil {
		return err
	}
	return viper.BindEnv("ingest.schedule", "INGEST_SCHEDULE")
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

func (config ServerConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("server.address", "SERVER_ADDRESS")
}
