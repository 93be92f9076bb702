package hh

type Employer struct {
	ID            string
	Name          string
	Url           string `json:"alternate_url"`
	SiteUrl       string `json:"site_url"`
	Description   string
	OpenVacancies int  `json:"open_vacancies"`
	Trusted       bool `json:"trusted"`
}
