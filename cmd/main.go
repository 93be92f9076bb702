package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hh-employers/internal/clients/hh"
	"github.com/maxaizer/hh-employers/internal/config"
	"github.com/maxaizer/hh-employers/internal/logger"
	"github.com/maxaizer/hh-employers/internal/metrics"
	"github.com/maxaizer/hh-employers/internal/repositories"
	"github.com/maxaizer/hh-employers/internal/server"
	"github.com/maxaizer/hh-employers/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"iter"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"
)

func newHHClient(cfg config.HHConfig) *hh.Client {
	client := hh.NewClient()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetBaseURL(cfg.BaseURL)
	client.SetUserAgent(cfg.UserAgent)
	client.SetRateLimit(cfg.MaxRequestsPerSecond)
	return client
}

func loadDbParams(cfg config.DBConfig) map[string]string {
	if cfg.CredentialsFile == "" {
		return map[string]string{}
	}

	params, err := config.LoadDbParams(cfg.CredentialsFile, cfg.Section)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeConfig).Fatalf("can't load db credentials: %v", err)
	}
	return params
}

func openDbContext(cfg config.DBConfig, params map[string]string) *repositories.DbContext {
	dbContext, err := repositories.NewDbContext(repositories.Dialect(cfg.Dialect), cfg.Name, params)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Fatalf("can't create db context: %v", err)
	}

	if err = dbContext.Migrate(); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Fatalf("can't migrate db context: %v", err)
	}
	return dbContext
}

func newIngester(cfg *config.Config, dbContext *repositories.DbContext) *services.Ingester {
	bus := EventBus.New()
	if err := services.SubscribeIngestMetrics(bus); err != nil {
		log.Fatalf("can't subscribe ingest metrics: %v", err)
	}

	return services.NewIngester(bus, newHHClient(cfg.HH),
		repositories.NewEmployersRepository(dbContext.DB),
		repositories.NewVacanciesRepository(dbContext.DB))
}

func employerIDsLoader(cfg config.IngestConfig) services.EmployerIDsLoader {
	return func() (iter.Seq[int], error) {
		return config.EmployerIDs(cfg.EmployerIDsFile)
	}
}

func runIngest(ctx context.Context, cfg *config.Config) {
	ids, err := employerIDsLoader(cfg.Ingest)()
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeConfig).Fatalf("can't load employer ids: %v", err)
	}

	client := newHHClient(cfg.HH)
	if !client.CheckConnectivity(ctx) {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHhApi).Fatal("hh api is unavailable")
	}

	dbContext := openDbContext(cfg.DB, loadDbParams(cfg.DB))
	defer dbContext.Close()

	report := newIngester(cfg, dbContext).Run(ctx, ids)
	log.Infof("ingestion report: %+v", report)
}

func runReport(ctx context.Context, cfg *config.Config, keyword string) error {
	manager := repositories.NewDBManager(repositories.Dialect(cfg.DB.Dialect), loadDbParams(cfg.DB), cfg.DB.Name)
	out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer out.Flush()

	companies, err := manager.CompaniesWithVacancyCounts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "COMPANY\tVACANCIES")
	for _, row := range companies {
		fmt.Fprintf(out, "%s\t%d\n", row.EmployerName, row.VacanciesCount)
	}

	vacancies, err := manager.AllVacancies(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nCOMPANY\tVACANCY\tSALARY\tURL")
	for _, row := range vacancies {
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", row.EmployerName, row.VacancyName, formatSalary(row.Salary), row.VacancyURL)
	}

	avg, err := manager.AverageSalary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nAVERAGE SALARY\t%.0f\n", avg)

	above, err := manager.VacanciesAboveAverage(ctx)
	if err != nil {
		return err
	}
	printBriefs(out, "ABOVE AVERAGE", above)

	if keyword != "" {
		matched, err := manager.VacanciesMatchingKeyword(ctx, keyword)
		if err != nil {
			return err
		}
		printBriefs(out, fmt.Sprintf("MATCHING %q", keyword), matched)
	}
	return nil
}

func printBriefs(out *tabwriter.Writer, title string, rows []repositories.VacancyBrief) {
	fmt.Fprintf(out, "\n%s\tSALARY\tURL\n", title)
	for _, row := range rows {
		fmt.Fprintf(out, "%s\t%s\t%s\n", row.VacancyName, formatSalary(row.Salary), row.VacancyURL)
	}
}

func formatSalary(salary *int) string {
	if salary == nil {
		return "-"
	}
	return fmt.Sprint(*salary)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	params := loadDbParams(cfg.DB)

	if cfg.Ingest.Schedule != "" {
		dbContext := openDbContext(cfg.DB, params)
		defer dbContext.Close()

		scheduler, err := services.NewIngestScheduler(ctx, newIngester(cfg, dbContext),
			employerIDsLoader(cfg.Ingest), cfg.Ingest.Schedule)
		if err != nil {
			return errors.Wrap(err, "can't create ingest scheduler")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	manager := repositories.NewDBManager(repositories.Dialect(cfg.DB.Dialect), params, cfg.DB.Name)
	srv, err := server.NewServer(cfg.Server.Address, server.NewReportsHandler(manager))
	if err != nil {
		return errors.Wrap(err, "can't create server")
	}

	log.Infof("reports api listening on %s", cfg.Server.Address)
	return serve(ctx, srv)
}

type httpServer interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// serve blocks until the server fails or ctx is done, then shuts it down.
func serve(ctx context.Context, srv httpServer) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Run()
	}()

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown failed")
	}
	log.Info("Services stopped.")
	return nil
}

func main() {
	command := flag.String("cmd", "ingest", "Command to run: ingest, report, migrate, serve, check")
	keyword := flag.String("keyword", "", "Keyword for vacancy search in report")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	switch *command {
	case "ingest":
		runIngest(ctx, cfg)
	case "report":
		if err := runReport(ctx, cfg, *keyword); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Fatalf("report failed: %v", err)
		}
	case "migrate":
		dbContext := openDbContext(cfg.DB, loadDbParams(cfg.DB))
		_ = dbContext.Close()
		log.Info("schema is up to date")
	case "serve":
		if err := runServe(ctx, cfg); err != nil {
			log.Error(err)
			logger.Cleanup()
			os.Exit(1)
		}
	case "check":
		if !newHHClient(cfg.HH).CheckConnectivity(ctx) {
			log.Fatal("hh api is unavailable")
		}
		log.Info("hh api is available")
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(2)
	}
}
