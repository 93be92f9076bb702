package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Dialect         string `mapstructure:"dialect" validate:"required,oneof=postgres sqlite"`
	CredentialsFile string `mapstructure:"credentials_file" validate:"required_if=Dialect postgres"`
	Section         string `mapstructure:"section"`
	Name            string `mapstructure:"name" validate:"required"`
}

func (config DBConfig) validate() error {
	err := validator.New().Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var errs []error
	for _, fieldErr := range validationErrors {
		errs = append(errs, fmt.Errorf("invalid variable %s: failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}
	return errors.Join(errs...)
}

func (config DBConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("db.dialect", "DB_DIALECT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("db.credentials_file", "DB_CREDENTIALS_FILE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("db.section", "DB_SECTION"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("db.name", "DB_NAME"); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
