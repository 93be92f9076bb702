package repositories

import (
	"fmt"
	"github.com/maxaizer/hh-employers/internal/domain/models"
	"gorm.io/gorm"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(dialect Dialect, dbName string, params map[string]string) (*DbContext, error) {
	db, err := open(dialect, dbName, params)
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(models.Employer{})
	if err != nil {
		return fmt.Errorf("failed to migrate Employer entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.Vacancy{})
	if err != nil {
		return fmt.Errorf("failed to migrate Vacancy entity: %w", err)
	}

	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_vacancies_salary ON vacancies (salary)").
		Error; err != nil {
		return fmt.Errorf("failed to create salary index: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	return closeDB(c.DB)
}
