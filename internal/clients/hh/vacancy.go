package hh

import (
	"encoding/json"
	"fmt"
	"time"
)

type VacancyItem struct {
	ID          string
	Name        string
	Url         string      `json:"alternate_url"`
	Salary      *Salary     `json:"salary"`
	Employer    EmployerRef `json:"employer"`
	PublishedAt CustomTime  `json:"published_at"`
}

type Salary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
	Gross    *bool  `json:"gross"`
}

// Amount is the lower bound of the range, or the upper one when only it is disclosed.
func (s *Salary) Amount() *int {
	if s == nil {
		return nil
	}
	if s.From != nil {
		return s.From
	}
	return s.To
}

type EmployerRef struct {
	ID   string
	Name string
}

type CustomTime struct {
	time.Time
}

func (dt *CustomTime) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	if str == "" {
		dt.Time = time.Time{}
		return nil
	}

	t, err := time.Parse("2006-01-02T15:04:05-0700", str)
	if err != nil {
		return fmt.Errorf("parsing time %s: %v", str, err)
	}
	dt.Time = t
	return nil
}
