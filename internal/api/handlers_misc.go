package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inventoryportal/internal/analysis"
	"inventoryportal/internal/labmetrics"
	"inventoryportal/internal/monitoring"
	"inventoryportal/internal/storage"
	"inventoryportal/internal/tabular"
)

func (s *Server) parseLabUpload(c *gin.Context) (*labmetrics.Report, bool) {
	table, _, ok := s.parseUpload(c, 0)
	if !ok {
		return nil, false
	}

	report, err := labmetrics.Aggregate(table)
	if err != nil {
		var missing *labmetrics.MissingColumnsError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error(), "missing": missing.Columns})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return report, true
}

// handleLabMetrics aggregates an uploaded billing export into JSON.
func (s *Server) handleLabMetrics(c *gin.Context) {
	report, ok := s.parseLabUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleLabMetricsExport aggregates an uploaded billing export and streams
// the multi-sheet metrics workbook.
func (s *Server) handleLabMetricsExport(c *gin.Context) {
	report, ok := s.parseLabUpload(c)
	if !ok {
		return
	}

	buf, err := labmetrics.Workbook(report)
	if err != nil {
		s.log.WithField("err", err).Error("lab metrics export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="lab_metrics.xlsx"`)
	c.Data(http.StatusOK, tabular.XLSXContentType, buf.Bytes())
}

// handleDriveUpload pushes one uploaded file to the shared cloud folder and
// returns its object key. Upload errors surface as-is; there is no retry.
func (s *Server) handleDriveUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	key, err := s.drive.Upload(c.Request.Context(), header.Filename, f)
	if err != nil {
		if errors.Is(err, storage.ErrBucketNotConfigured) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.WithFields(logrus.Fields{"file": header.Filename, "err": err}).Error("drive upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	monitoring.DriveUploads.Inc()
	s.monitor.IncrementMetric("drive_uploads")
	c.JSON(http.StatusOK, gin.H{"object": key})
}

// handleAnalysis sends an uploaded file plus a free-form prompt to the
// configured LLM and returns the reply, with any detected CSV table broken
// out for the client.
func (s *Server) handleAnalysis(c *gin.Context) {
	analyzer, err := s.getAnalyzer()
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	contents, err := analysis.FileContents(header.Filename, f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	monitoring.AnalysisRequests.Inc()
	s.monitor.IncrementMetric("analysis_requests")

	result, err := analyzer.Analyze(c.Request.Context(), contents, c.PostForm("prompt"))
	if err != nil {
		s.log.WithFields(logrus.Fields{"file": header.Filename, "err": err}).Error("analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportTableRequest carries a detected analysis table back for download.
type ExportTableRequest struct {
	Table [][]string `json:"table"`
}

// handleAnalysisExport turns a detected CSV table into a workbook download.
func (s *Server) handleAnalysisExport(c *gin.Context) {
	var req ExportTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Table) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table needs a header row and at least one data row"})
		return
	}

	rows := make([][]interface{}, 0, len(req.Table)-1)
	for _, row := range req.Table[1:] {
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		rows = append(rows, cells)
	}

	buf, err := tabular.WriteWorkbook("Analysis", req.Table[0], rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="analysis.xlsx"`)
	c.Data(http.StatusOK, tabular.XLSXContentType, buf.Bytes())
}

// handleMetrics returns the application-level metrics snapshot.
func (s *Server) handleMetrics(c *gin.Context) {
	metrics := s.monitor.GetMetrics()
	metrics["sessions"] = s.sessions.Count()
	c.JSON(http.StatusOK, metrics)
}
