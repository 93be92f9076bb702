package events

var EmployerIngestedTopic = "EmployerIngestedEvent"

type EmployerIngested struct {
	EmployerID   int
	EmployerName string
	Vacancies    int
}
