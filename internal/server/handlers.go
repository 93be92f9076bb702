package server

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/hh-employers/internal/logger"
	"github.com/maxaizer/hh-employers/internal/repositories"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"net/http"
)

type reportsSource interface {
	CompaniesWithVacancyCounts(ctx context.Context) ([]repositories.CompanyVacancies, error)
	AllVacancies(ctx context.Context) ([]repositories.VacancyListing, error)
	AverageSalary(ctx context.Context) (float64, error)
	VacanciesAboveAverage(ctx context.Context) ([]repositories.VacancyBrief, error)
	VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]repositories.VacancyBrief, error)
}

type ReportsHandler struct {
	reports reportsSource
}

func NewReportsHandler(reports reportsSource) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

func (h *ReportsHandler) Companies(c *gin.Context) {
	rows, err := h.reports.CompaniesWithVacancyCounts(c.Request.Context())
	respond(c, rows, err)
}

func (h *ReportsHandler) Vacancies(c *gin.Context) {
	rows, err := h.reports.AllVacancies(c.Request.Context())
	respond(c, rows, err)
}

func (h *ReportsHandler) AverageSalary(c *gin.Context) {
	avg, err := h.reports.AverageSalary(c.Request.Context())
	respond(c, gin.H{"average_salary": avg}, err)
}

func (h *ReportsHandler) AboveAverage(c *gin.Context) {
	rows, err := h.reports.VacanciesAboveAverage(c.Request.Context())
	respond(c, rows, err)
}

func (h *ReportsHandler) Search(c *gin.Context) {
	rows, err := h.reports.VacanciesMatchingKeyword(c.Request.Context(), c.Query("keyword"))
	respond(c, rows, err)
}

func respond(c *gin.Context, body any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, body)
		return
	}

	if errors.Is(err, repositories.ErrInvalidArgument) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("report query %s failed: %v", c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
}
