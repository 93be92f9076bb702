package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"io/fs"
	"os"
)

type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	DB     DBConfig     `mapstructure:"db"`
	HH     HHConfig     `mapstructure:"hh"`
	Ingest IngestConfig `mapstructure:"ingest"`
	Server ServerConfig `mapstructure:"server"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("can't load .env file: %v", err)
	}

	file := configFile
	if value, _ := os.LookupEnv("MODE"); value == "test" {
		file = "../../configs/config.yaml"
	}
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		file = value
	}

	config, err := loadConfig(file)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	viper.SetDefault("db.dialect", "postgres")
	viper.SetDefault("db.section", DefaultDbSection)
	viper.SetDefault("db.name", "company_jobs_db")
	viper.SetDefault("hh.base_url", "https://api.hh.ru")
	viper.SetDefault("hh.user_agent", "HH-User-Agent")
	viper.SetDefault("server.address", ":8080")

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func bindEnvironmentVariables() error {
	var errs []error

	db, hh, ingest, logger, server := DBConfig{}, HHConfig{}, IngestConfig{}, LoggerConfig{}, ServerConfig{}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := hh.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("HHConfig: %w", err))
	}

	if err := ingest.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("IngestConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := server.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("ServerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.HH.validate(); err != nil {
		errs = append(errs, fmt.Errorf("HHConfig: %w", err))
	}

	if err := config.Ingest.validate(); err != nil {
		errs = append(errs, fmt.Errorf("IngestConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
