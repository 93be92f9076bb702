package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hh-employers/internal/clients/hh"
	"github.com/maxaizer/hh-employers/internal/domain/events"
	"github.com/maxaizer/hh-employers/internal/domain/models"
	"github.com/maxaizer/hh-employers/internal/logger"
	"github.com/maxaizer/hh-employers/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"iter"
	"strconv"
	"time"
)

type hhClient interface {
	EmployerExists(ctx context.Context, id int) bool
	GetVacanciesByEmployer(ctx context.Context, employerID int) ([]hh.VacancyItem, error)
	GetEmployer(ctx context.Context, id int) (hh.Employer, error)
}

type employerRepository interface {
	Save(ctx context.Context, employer models.Employer) error
}

type vacancyRepository interface {
	SaveAll(ctx context.Context, vacancies []models.Vacancy) (int64, error)
}

type IngestReport struct {
	Processed int
	Skipped   int
	Failed    int
	Vacancies int
}

const (
	skipReasonInvalidID = "invalid_id"
	skipReasonNotFound  = "not_found"
)

type Ingester struct {
	bus       EventBus.Bus
	client    hhClient
	existence employerChecker
	employers employerRepository
	vacancies vacancyRepository
}

func NewIngester(bus EventBus.Bus, client hhClient, employers employerRepository, vacancies vacancyRepository) *Ingester {
	return &Ingester{
		bus:       bus,
		client:    client,
		existence: NewCachedEmployers(client),
		employers: employers,
		vacancies: vacancies,
	}
}

// Run ingests every employer id in order. A failing id is logged and skipped.
func (i *Ingester) Run(ctx context.Context, ids iter.Seq[int]) IngestReport {
	start := time.Now()
	var report IngestReport

	for id := range ids {
		if ctx.Err() != nil {
			log.Infof("ingestion canceled after %d employers", report.Processed)
			break
		}
		report.Processed++

		validID := hh.ValidateID(id)
		if validID == 0 {
			log.Warnf("skipping invalid employer id %d", id)
			metrics.SkippedEmployersCounter.WithLabelValues(skipReasonInvalidID).Inc()
			report.Skipped++
			continue
		}

		if !i.existence.EmployerExists(ctx, validID) {
			log.Warnf("skipping employer %d: not found on hh", validID)
			metrics.SkippedEmployersCounter.WithLabelValues(skipReasonNotFound).Inc()
			report.Skipped++
			continue
		}

		saved, err := i.IngestEmployer(ctx, validID)
		if err != nil {
			report.Failed++
			continue
		}
		report.Vacancies += saved
	}

	executionTime := time.Since(start)
	metrics.IngestionDuration.Observe(executionTime.Seconds())
	log.Infof("ingestion ended after %v: processed %d, skipped %d, failed %d, vacancies %d",
		executionTime, report.Processed, report.Skipped, report.Failed, report.Vacancies)

	return report
}

// IngestEmployer fetches vacancies and the profile of one employer and stores them.
func (i *Ingester) IngestEmployer(ctx context.Context, employerID int) (int, error) {

	items, err := i.client.GetVacanciesByEmployer(ctx, employerID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHhApi).
			Errorf("failed to get vacancies of employer %d: %v", employerID, err)
		return 0, err
	}

	profile, err := i.client.GetEmployer(ctx, employerID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHhApi).
			Errorf("failed to get employer %d: %v", employerID, err)
		return 0, err
	}

	employer, err := toEmployer(profile)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHhApi).Error(err)
		return 0, err
	}

	if err = i.employers.Save(ctx, employer); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to save employer %d: %v", employerID, err)
		return 0, err
	}

	vacancies := toVacancies(employer.EmployerID, items)
	saved, err := i.vacancies.SaveAll(ctx, vacancies)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to save vacancies of employer %d: %v", employerID, err)
		return 0, err
	}

	log.Infof("employer %d (%s): fetched %d vacancies, stored %d new",
		employer.EmployerID, employer.EmployerName, len(items), saved)

	i.bus.Publish(events.EmployerIngestedTopic, events.EmployerIngested{
		EmployerID:   employer.EmployerID,
		EmployerName: employer.EmployerName,
		Vacancies:    int(saved),
	})
	return int(saved), nil
}

func toEmployer(profile hh.Employer) (models.Employer, error) {
	id, err := strconv.Atoi(profile.ID)
	if err != nil {
		return models.Employer{}, errors.Wrapf(err, "invalid employer id %q", profile.ID)
	}

	return models.Employer{
		EmployerID:    id,
		EmployerName:  profile.Name,
		EmployerURL:   profile.Url,
		OpenVacancies: profile.OpenVacancies,
	}, nil
}

// toVacancies keeps only items with a disclosed salary and a numeric id.
func toVacancies(employerID int, items []hh.VacancyItem) []models.Vacancy {
	return lo.FilterMap(items, func(item hh.VacancyItem, _ int) (models.Vacancy, bool) {
		salary := item.Salary.Amount()
		if salary == nil {
			return models.Vacancy{}, false
		}

		id, err := strconv.Atoi(item.ID)
		if err != nil {
			log.Warnf("skipping vacancy with invalid id %q", item.ID)
			return models.Vacancy{}, false
		}

		return models.Vacancy{
			VacancyID:   id,
			EmployerID:  employerID,
			VacancyName: item.Name,
			Salary:      salary,
			VacancyURL:  item.Url,
		}, true
	})
}
