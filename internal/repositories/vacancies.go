package repositories

import (
	"context"
	"github.com/maxaizer/hh-employers/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 100

type Vacancies struct {
	db *gorm.DB
}

func NewVacanciesRepository(db *gorm.DB) *Vacancies {
	return &Vacancies{db: db}
}

// SaveAll inserts vacancies, already stored ones are left untouched.
func (v Vacancies) SaveAll(ctx context.Context, vacancies []models.Vacancy) (int64, error) {
	if len(vacancies) == 0 {
		return 0, nil
	}

	res := v.db.WithContext(ctx).
		Omit("Employer").
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&vacancies, insertBatchSize)
	return res.RowsAffected, res.Error
}
