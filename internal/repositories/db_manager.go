package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"strings"
	"unicode"
)

const DefaultDatabaseName = "company_jobs_db"

var ErrInvalidArgument = errors.New("invalid argument")

type CompanyVacancies struct {
	EmployerName   string `json:"employer_name"`
	VacanciesCount int64  `json:"vacancies_count"`
}

type VacancyListing struct {
	EmployerName string `json:"employer_name"`
	VacancyName  string `json:"vacancy_name"`
	Salary       *int   `json:"salary"`
	VacancyURL   string `json:"vacancy_url"`
}

type VacancyBrief struct {
	VacancyName string `json:"vacancy_name"`
	Salary      *int   `json:"salary"`
	VacancyURL  string `json:"vacancy_url"`
}

// DBManager runs read queries over stored employers and vacancies.
// Every call opens its own connection and closes it before returning.
type DBManager struct {
	dialect Dialect
	params  map[string]string
	dbName  string
}

func NewDBManager(dialect Dialect, params map[string]string, dbName string) *DBManager {
	if dbName == "" {
		dbName = DefaultDatabaseName
	}
	return &DBManager{dialect: dialect, params: params, dbName: dbName}
}

func (m *DBManager) withConnection(ctx context.Context, query func(db *gorm.DB) error) (err error) {
	db, err := open(m.dialect, m.dbName, m.params)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	defer func() {
		if closeErr := closeDB(db); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return query(db.WithContext(ctx))
}

func (m *DBManager) CompaniesWithVacancyCounts(ctx context.Context) ([]CompanyVacancies, error) {
	var rows []CompanyVacancies
	err := m.withConnection(ctx, func(db *gorm.DB) error {
		return db.Raw(`
			SELECT employers.employer_name, COUNT(*) AS vacancies_count
			FROM vacancies
			INNER JOIN employers ON employers.employer_id = vacancies.employer_id
			GROUP BY employers.employer_id, employers.employer_name
			ORDER BY vacancies_count DESC, employers.employer_name`).
			Scan(&rows).Error
	})
	return rows, err
}

func (m *DBManager) AllVacancies(ctx context.Context) ([]VacancyListing, error) {
	var rows []VacancyListing
	err := m.withConnection(ctx, func(db *gorm.DB) error {
		return db.Raw(`
			SELECT employers.employer_name, vacancies.vacancy_name, vacancies.salary, vacancies.vacancy_url
			FROM vacancies
			INNER JOIN employers ON employers.employer_id = vacancies.employer_id
			ORDER BY vacancies.salary DESC NULLS LAST`).
			Scan(&rows).Error
	})
	return rows, err
}

// AverageSalary returns 0 when no vacancy carries a salary.
func (m *DBManager) AverageSalary(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := m.withConnection(ctx, func(db *gorm.DB) error {
		return db.Raw("SELECT AVG(salary) FROM vacancies").Row().Scan(&avg)
	})
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (m *DBManager) VacanciesAboveAverage(ctx context.Context) ([]VacancyBrief, error) {
	var rows []VacancyBrief
	err := m.withConnection(ctx, func(db *gorm.DB) error {
		return db.Raw(`
			SELECT vacancy_name, salary, vacancy_url
			FROM vacancies
			WHERE salary > (SELECT AVG(salary) FROM vacancies)
			ORDER BY salary DESC`).
			Scan(&rows).Error
	})
	return rows, err
}

// VacanciesMatchingKeyword finds vacancies whose name contains keyword ignoring case.
func (m *DBManager) VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]VacancyBrief, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "keyword must not be empty")
	}

	condition, args := m.keywordCondition(keyword)
	query := fmt.Sprintf(`
		SELECT vacancy_name, salary, vacancy_url
		FROM vacancies
		WHERE %s
		ORDER BY salary DESC NULLS LAST`, condition)

	var rows []VacancyBrief
	err := m.withConnection(ctx, func(db *gorm.DB) error {
		return db.Raw(query, args...).Scan(&rows).Error
	})
	return rows, err
}

// sqlite LIKE folds case of ASCII letters only, other alphabets are matched
// by a lower-cased and a capitalized pattern.
func (m *DBManager) keywordCondition(keyword string) (string, []any) {
	if m.dialect == DialectPostgres {
		return `vacancy_name ILIKE ? ESCAPE '\'`, []any{containsPattern(keyword)}
	}

	return `(vacancy_name LIKE ? ESCAPE '\' OR vacancy_name LIKE ? ESCAPE '\')`,
		[]any{containsPattern(strings.ToLower(keyword)), containsPattern(capitalize(keyword))}
}

func containsPattern(value string) string {
	return "%" + escapeLikePattern(value) + "%"
}

func escapeLikePattern(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

func capitalize(value string) string {
	runes := []rune(strings.ToLower(value))
	if len(runes) == 0 {
		return value
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
