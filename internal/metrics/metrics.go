package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hh_employers_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	HhRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hh_employers_api_request_duration_seconds",
			Help:    "Duration of requests to hh api in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	IngestionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hh_employers_ingestion_duration_seconds",
			Help:    "Duration of each ingestion run in seconds.",
			Buckets: []float64{1, 5, 15, 60, 300, 900},
		},
	)
	IngestedEmployersCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hh_employers_ingested_total",
			Help: "Total number of employers stored.",
		},
	)
	IngestedVacanciesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hh_employers_vacancies_ingested_total",
			Help: "Total number of vacancies stored.",
		},
	)
	SkippedEmployersCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hh_employers_skipped_total",
			Help: "Total number of employer ids skipped during ingestion.",
		},
		[]string{"reason"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(HhRequestDuration)
		prometheus.MustRegister(IngestionDuration)
		prometheus.MustRegister(IngestedEmployersCounter)
		prometheus.MustRegister(IngestedVacanciesCounter)
		prometheus.MustRegister(SkippedEmployersCounter)
	})
}

func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
