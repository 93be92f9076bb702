package server

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/hh-employers/internal/metrics"
	"net/http"
)

type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	handler    *ReportsHandler
}

func NewServer(address string, handler *ReportsHandler) (*Server, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	s := &Server{
		router:  router,
		handler: handler,
		httpServer: &http.Server{
			Addr:    address,
			Handler: router,
		},
	}
	s.setUpRoutes()
	return s, nil
}

func (s *Server) setUpRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.router.GET("/companies", s.handler.Companies)
	vacancies := s.router.Group("/vacancies")
	vacancies.GET("", s.handler.Vacancies)
	vacancies.GET("/average-salary", s.handler.AverageSalary)
	vacancies.GET("/above-average", s.handler.AboveAverage)
	vacancies.GET("/search", s.handler.Search)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks until the server is shut down.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
