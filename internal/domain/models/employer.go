package models

type Employer struct {
	EmployerID    int    `gorm:"primaryKey;autoIncrement:false"`
	EmployerName  string `gorm:"not null"`
	EmployerURL   string
	OpenVacancies int
}

type Vacancy struct {
	VacancyID   int       `gorm:"primaryKey;autoIncrement:false"`
	EmployerID  int       `gorm:"not null;index"`
	Employer    *Employer `gorm:"foreignKey:EmployerID;references:EmployerID;constraint:OnDelete:CASCADE"`
	VacancyName string    `gorm:"not null"`
	Salary      *int
	VacancyURL  string
}
