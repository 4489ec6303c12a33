// Package api exposes the portal over HTTP: a login endpoint issuing
// session tokens and a JSON API for inventory ingestion and review, lab
// billing metrics, drive upload, and LLM file analysis.
package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inventoryportal/internal/analysis"
	"inventoryportal/internal/config"
	"inventoryportal/internal/logging"
	"inventoryportal/internal/monitoring"
	"inventoryportal/internal/session"
	"inventoryportal/internal/storage"
)

// Server handles portal API requests
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	log      *logrus.Logger
	sessions *session.Manager
	drive    *storage.DriveClient
	monitor  *monitoring.Monitor

	// The LLM provider is dialed on first use so the portal runs without
	// analysis credentials until someone hits the analysis endpoints.
	analyzerOnce sync.Once
	analyzer     *analysis.Analyzer
	analyzerErr  error
}

// NewServer creates a new portal server instance
func NewServer(cfg *config.Config) *Server {
	server := &Server{
		cfg:      cfg,
		router:   gin.Default(),
		log:      logging.GetLogger(),
		sessions: session.NewManager(),
		drive:    storage.NewDriveClient(cfg.Drive.Bucket, cfg.Drive.FolderPrefix),
		monitor:  monitoring.NewMonitor(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.POST("/login", s.handleLogin)

	api := s.router.Group("/api")
	api.Use(s.authMiddleware())
	{
		api.GET("/schema", s.handleSchema)
		api.GET("/metrics", s.handleMetrics)

		api.GET("/inventory", s.handleListInventory)
		api.POST("/inventory", s.handleManualEntry)
		api.PUT("/inventory/:index", s.handleEditRecord)
		api.DELETE("/inventory/:index", s.handleDeleteRecord)
		api.POST("/inventory/undo", s.handleUndoDelete)
		api.GET("/inventory/export", s.handleInventoryExport)

		api.POST("/imports", s.handleImport)
		api.POST("/imports/mapping", s.handleConfirmMapping)

		api.GET("/review", s.handleReviewPresent)
		api.POST("/review/confirm", s.handleReviewConfirm)

		api.GET("/allocation", s.handleAllocationCurrent)
		api.POST("/allocation", s.handleAllocate)
		api.POST("/allocation/advance", s.handleAllocationAdvance)

		api.POST("/labmetrics", s.handleLabMetrics)
		api.POST("/labmetrics/export", s.handleLabMetricsExport)

		api.POST("/drive", s.handleDriveUpload)

		api.POST("/analysis", s.handleAnalysis)
		api.POST("/analysis/export", s.handleAnalysisExport)
		api.GET("/analysis/ws", s.handleAnalysisWS)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// getAnalyzer builds the configured LLM analyzer once, caching the result
// (or the failure) for subsequent requests. The REST handlers and websocket
// goroutines call this concurrently, so the pre-seeded check lives inside
// the Once as well.
func (s *Server) getAnalyzer() (*analysis.Analyzer, error) {
	s.analyzerOnce.Do(func() {
		if s.analyzer != nil {
			return
		}
		provider, err := analysis.NewProvider(s.cfg.LLM.Provider, s.cfg.LLM.Model)
		if err != nil {
			s.analyzerErr = err
			return
		}
		s.analyzer = analysis.New(provider, s.cfg.LLM.MaxChars)
	})
	return s.analyzer, s.analyzerErr
}
