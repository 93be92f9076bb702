package hh

import (
	"fmt"
	"github.com/pkg/errors"
	"net/url"
	"strconv"
)

const (
	MaxPerPage = 100
	// api returns at most this many items for one search, deeper pages are rejected
	maxResults = 2000
)

var ErrTooDeepPagination = errors.New("too deep pagination")

// VacancyParams is the query of the vacancies endpoint restricted to one employer.
type VacancyParams struct {
	Page           int
	PerPage        int
	OnlyWithSalary bool
	Currency       string
	EmployerID     int
}

func NewVacancyParams(employerID int) VacancyParams {
	return VacancyParams{
		Page:           0,
		PerPage:        MaxPerPage,
		OnlyWithSalary: true,
		Currency:       "RUR",
		EmployerID:     employerID,
	}
}

func (p VacancyParams) Validate() error {

	if p.Page < 0 {
		return fmt.Errorf("page must be non-negative")
	}

	if p.PerPage <= 0 || p.PerPage > MaxPerPage {
		return fmt.Errorf("per page must be between 1 and %d", MaxPerPage)
	}

	if p.Page >= maxResults/p.PerPage {
		return ErrTooDeepPagination
	}

	return nil
}

func (p VacancyParams) ToUrlParams() url.Values {

	params := url.Values{}
	params.Add("page", strconv.Itoa(p.Page))
	params.Add("per_page", strconv.Itoa(p.PerPage))
	params.Add("only_with_salary", strconv.FormatBool(p.OnlyWithSalary))

	if p.Currency != "" {
		params.Add("currency", p.Currency)
	}

	params.Add("employer_id", strconv.Itoa(p.EmployerID))
	return params
}

// ValidateID clamps identifiers that can't belong to an employer to 0.
func ValidateID(id int) int {
	if id < 0 {
		return 0
	}
	return id
}
