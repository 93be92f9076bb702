package repositories

import (
	"context"
	"github.com/maxaizer/hh-employers/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Employers struct {
	db *gorm.DB
}

func NewEmployersRepository(db *gorm.DB) *Employers {
	return &Employers{db: db}
}

// Save inserts the employer unless one with the same id is already stored.
func (repo *Employers) Save(ctx context.Context, employer models.Employer) error {
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&employer).Error
}
