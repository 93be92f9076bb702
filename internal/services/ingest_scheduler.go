package services

import (
	"context"
	"github.com/maxaizer/hh-employers/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"iter"
)

type ingestRunner interface {
	Run(ctx context.Context, ids iter.Seq[int]) IngestReport
}

// EmployerIDsLoader is called before every scheduled run so edits of the ids file are picked up.
type EmployerIDsLoader func() (iter.Seq[int], error)

type IngestScheduler struct {
	ctx      context.Context
	ingester ingestRunner
	loadIDs  EmployerIDsLoader
	cron     *cron.Cron
	schedule string
}

func NewIngestScheduler(ctx context.Context, ingester ingestRunner, loadIDs EmployerIDsLoader,
	schedule string) (*IngestScheduler, error) {

	if schedule == "" {
		return nil, errors.New("schedule must not be empty")
	}

	s := &IngestScheduler{
		ctx:      ctx,
		ingester: ingester,
		loadIDs:  loadIDs,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		schedule: schedule,
	}

	_, err := s.cron.AddFunc(schedule, s.runIngestion)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", schedule)
	}

	return s, nil
}

func (s *IngestScheduler) Start() {
	s.cron.Start()
	log.Infof("ingest scheduler started, schedule: %s", s.schedule)
}

func (s *IngestScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *IngestScheduler) runIngestion() {
	ids, err := s.loadIDs()
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeConfig).Errorf("failed to load employer ids: %v", err)
		return
	}

	report := s.ingester.Run(s.ctx, ids)
	log.Infof("scheduled ingestion finished, stored %d vacancies", report.Vacancies)
}
