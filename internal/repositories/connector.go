package repositories

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"sort"
	"strings"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSqlite   Dialect = "sqlite"
)

type postgresParams struct {
	Host string `validate:"required"`
	Port string `validate:"omitempty,numeric"`
	User string `validate:"required"`
}

func open(dialect Dialect, dbName string, params map[string]string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	switch dialect {
	case DialectSqlite:
		return gorm.Open(sqlite.Open(sqliteDSN(dbName)), gormConfig)
	case DialectPostgres:
		dsn, err := postgresDSN(dbName, params)
		if err != nil {
			return nil, err
		}

		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "invalid connection parameters")
		}

		sqlDB := stdlib.OpenDB(*connConfig)
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)"
}

// postgresDSN builds a keyword/value connection string, dbName overrides any dbname in params.
func postgresDSN(dbName string, params map[string]string) (string, error) {
	if err := validator.New().Struct(postgresParams{
		Host: params["host"],
		Port: params["port"],
		User: params["user"],
	}); err != nil {
		return "", errors.Wrap(err, "invalid connection parameters")
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		if key == "dbname" || key == "database" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		parts = append(parts, key+"="+quoteDSNValue(params[key]))
	}
	parts = append(parts, "dbname="+quoteDSNValue(dbName))

	return strings.Join(parts, " "), nil
}

func quoteDSNValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}
