package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hh-employers/internal/domain/events"
	"github.com/maxaizer/hh-employers/internal/metrics"
)

func SubscribeIngestMetrics(bus EventBus.Bus) error {
	return bus.Subscribe(events.EmployerIngestedTopic, onEmployerIngested)
}

func onEmployerIngested(event events.EmployerIngested) {
	metrics.IngestedEmployersCounter.Inc()
	metrics.IngestedVacanciesCounter.Add(float64(event.Vacancies))
}
