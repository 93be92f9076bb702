package repositories

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/maxaizer/hh-employers/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func Test_Employers_Save_IgnoresDuplicates(t *testing.T) {
	dbCtx, _ := newTestDatabase(t)
	repo := NewEmployersRepository(dbCtx.DB)

	require.NoError(t, repo.Save(context.Background(), models.Employer{EmployerID: 1, EmployerName: "Skyeng"}))
	require.NoError(t, repo.Save(context.Background(), models.Employer{EmployerID: 1, EmployerName: "Renamed"}))

	var employers []models.Employer
	require.NoError(t, dbCtx.DB.Find(&employers).Error)
	require.Len(t, employers, 1)
	assert.Equal(t, "Skyeng", employers[0].EmployerName)
}

func Test_Vacancies_SaveAll(t *testing.T) {
	dbCtx, _ := newTestDatabase(t)
	require.NoError(t, NewEmployersRepository(dbCtx.DB).Save(context.Background(),
		models.Employer{EmployerID: 1, EmployerName: "Skyeng"}))
	repo := NewVacanciesRepository(dbCtx.DB)

	saved, err := repo.SaveAll(context.Background(), []models.Vacancy{vacancy(10, 1, "a", 100), vacancy(11, 1, "b", 200)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved)

	saved, err = repo.SaveAll(context.Background(), []models.Vacancy{vacancy(11, 1, "b", 200)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), saved)

	saved, err = repo.SaveAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), saved)

	var count int64
	require.NoError(t, dbCtx.DB.Model(&models.Vacancy{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func Test_Vacancies_SaveAll_UnknownEmployer_ShouldFail(t *testing.T) {
	dbCtx, _ := newTestDatabase(t)

	_, err := NewVacanciesRepository(dbCtx.DB).SaveAll(context.Background(), []models.Vacancy{vacancy(10, 42, "a", 100)})
	assert.Error(t, err)
}

func Test_PostgresDSN(t *testing.T) {
	dsn, err := postgresDSN("company_jobs_db", map[string]string{
		"host":     "localhost",
		"user":     "postgres",
		"password": `it's\secret`,
		"port":     "5433",
		"dbname":   "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, `host='localhost' password='it\'s\\secret' port='5433' user='postgres' dbname='company_jobs_db'`, dsn)

	connConfig, err := pgx.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "localhost", connConfig.Host)
	assert.Equal(t, uint16(5433), connConfig.Port)
	assert.Equal(t, "postgres", connConfig.User)
	assert.Equal(t, `it's\secret`, connConfig.Password)
	assert.Equal(t, "company_jobs_db", connConfig.Database)
}

func Test_PostgresDSN_InvalidParams(t *testing.T) {
	_, err := postgresDSN("db", map[string]string{"user": "postgres"})
	assert.Error(t, err)

	_, err = postgresDSN("db", map[string]string{"host": "localhost", "user": "postgres", "port": "abc"})
	assert.Error(t, err)
}
