package config

import (
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
logger:
  log_level: "INFO"
  output_file: "./logs/errors.log"
db:
  dialect: "postgres"
  credentials_file: "./configs/database.ini"
  section: "postgresql"
  name: "company_jobs_db"
hh:
  base_url: "https://api.hh.ru"
  user_agent: "HH-User-Agent"
  max_requests_per_second: 5
ingest:
  employer_ids_file: "./configs/employer_ids.json"
  schedule: "0 3 * * *"
`

func writeConfig(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func Test_Config_LoadsFile(t *testing.T) {
	viper.Reset()

	cfg, err := loadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, LevelInfo, cfg.Logger.LogLevel)
	assert.Equal(t, "postgres", cfg.DB.Dialect)
	assert.Equal(t, "./configs/database.ini", cfg.DB.CredentialsFile)
	assert.Equal(t, "company_jobs_db", cfg.DB.Name)
	assert.Equal(t, "HH-User-Agent", cfg.HH.UserAgent)
	assert.Equal(t, float32(5), cfg.HH.MaxRequestsPerSecond)
	assert.Equal(t, "./configs/employer_ids.json", cfg.Ingest.EmployerIDsFile)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {
	viper.Reset()

	t.Setenv("DB_DIALECT", "sqlite")
	t.Setenv("DB_NAME", "override.db")
	t.Setenv("HH_BASE_URL", "http://localhost:9000")
	t.Setenv("HH_USER_AGENT", "override-agent")
	t.Setenv("EMPLOYER_IDS_FILE", "ids.json")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SERVER_ADDRESS", ":9090")

	cfg, err := loadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Dialect)
	assert.Equal(t, "override.db", cfg.DB.Name)
	assert.Equal(t, "http://localhost:9000", cfg.HH.BaseURL)
	assert.Equal(t, "override-agent", cfg.HH.UserAgent)
	assert.Equal(t, "ids.json", cfg.Ingest.EmployerIDsFile)
	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func Test_Config_InvalidValues_ShouldFail(t *testing.T) {
	viper.Reset()

	_, err := loadConfig(writeConfig(t, `
logger:
  log_level: "INFO"
  output_file: "./logs/errors.log"
db:
  dialect: "mysql"
ingest:
  employer_ids_file: "ids.json"
  schedule: "every minute"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dialect")
	assert.Contains(t, err.Error(), "schedule")
}

func Test_Config_PostgresWithoutCredentials_ShouldFail(t *testing.T) {
	viper.Reset()

	_, err := loadConfig(writeConfig(t, `
logger:
  log_level: "INFO"
  output_file: "./logs/errors.log"
db:
  dialect: "postgres"
ingest:
  employer_ids_file: "ids.json"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CredentialsFile")
}
