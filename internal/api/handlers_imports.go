package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inventoryportal/internal/ingest"
	"inventoryportal/internal/monitoring"
	"inventoryportal/internal/review"
	"inventoryportal/internal/session"
	"inventoryportal/internal/tabular"
)

// Upload types accepted by the imports endpoint.
const (
	ImportAmazon    = "amazon"
	ImportInventory = "inventory"
	ImportMcKesson  = "mckesson"
)

// vendorHeaderRow is the header position in vendor-generated xlsx reports,
// which lead with a banner row. CSV uploads and generic inventory sheets
// have their header on the first row.
const vendorHeaderRow = 1

func headerRowFor(importType, filename string) int {
	if importType == ImportInventory {
		return 0
	}
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return 0
	}
	return vendorHeaderRow
}

func (s *Server) parseUpload(c *gin.Context, headerRow int) (*tabular.Table, *multipart.FileHeader, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	defer f.Close()

	table, err := tabular.Read(header.Filename, f, headerRow)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return table, header, true
}

// handleImport ingests a vendor or inventory report. Amazon reports start a
// review queue immediately; generic inventory reports come back with a
// proposed column mapping to confirm; McKesson statements start an
// allocation run. A failed parse leaves the session untouched.
func (s *Server) handleImport(c *gin.Context) {
	importType := c.PostForm("type")
	switch importType {
	case ImportAmazon, ImportInventory, ImportMcKesson:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be amazon, inventory or mckesson"})
		return
	}

	filename := ""
	if header, err := c.FormFile("file"); err == nil {
		filename = header.Filename
	}
	table, header, ok := s.parseUpload(c, headerRowFor(importType, filename))
	if !ok {
		return
	}

	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	now := time.Now()
	switch importType {
	case ImportAmazon:
		batch := ingest.NormalizeBatch(table, ingest.AmazonMapping(), now)
		sess.Queue = review.NewQueue(batch, sess.Store)
		sess.Run = nil
		sess.Pending = nil
		monitoring.RowsNormalized.Add(float64(len(batch)))
		s.logImport(sess, importType, header.Filename, len(batch))
		c.JSON(http.StatusOK, gin.H{"type": importType, "queued": len(batch)})

	case ImportInventory:
		sess.Pending = &session.PendingUpload{
			Filename: header.Filename,
			Table:    table,
			Proposed: ingest.GuessMapping(table),
		}
		c.JSON(http.StatusOK, gin.H{
			"type":     importType,
			"columns":  table.Columns,
			"proposed": sess.Pending.Proposed,
		})

	case ImportMcKesson:
		rows := ingest.McKessonRows(table, now)
		sess.Run = review.NewAllocationRun(rows, sess.Store)
		sess.Queue = nil
		sess.Pending = nil
		s.logImport(sess, importType, header.Filename, len(rows))
		c.JSON(http.StatusOK, gin.H{"type": importType, "rows": len(rows)})
	}
}

func (s *Server) logImport(sess *session.Session, importType, filename string, rows int) {
	s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"type":    importType,
		"file":    filename,
		"rows":    rows,
	}).Info("import accepted")
}

// MappingRequest carries the operator's column-mapping overrides.
type MappingRequest struct {
	Overrides map[string]string `json:"overrides"`
}

// handleConfirmMapping fixes the column mapping for the pending generic
// upload and starts the review queue over its normalized rows. The mapping
// cannot be changed afterwards for this upload.
func (s *Server) handleConfirmMapping(c *gin.Context) {
	var req MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Pending == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no upload awaiting a column mapping"})
		return
	}

	mapping, err := ingest.ApplyOverrides(sess.Pending.Proposed, req.Overrides, sess.Pending.Table)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch := ingest.NormalizeBatch(sess.Pending.Table, mapping, time.Now())
	sess.Queue = review.NewQueue(batch, sess.Store)
	sess.Run = nil
	sess.Pending = nil
	monitoring.RowsNormalized.Add(float64(len(batch)))

	c.JSON(http.StatusOK, gin.H{"queued": len(batch), "mapping": mapping})
}

// handleReviewPresent returns the record awaiting confirmation with its
// display-truncated field values, or a terminal signal once the batch is
// done.
func (s *Server) handleReviewPresent(c *gin.Context) {
	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Queue == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no review in progress"})
		return
	}

	rec, err := sess.Queue.Present()
	if errors.Is(err, review.ErrBatchComplete) {
		c.JSON(http.StatusOK, gin.H{"done": true, "total": sess.Queue.Len()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"done":   false,
		"index":  sess.Queue.Index(),
		"total":  sess.Queue.Len(),
		"record": rec,
		"values": review.DisplayValues(rec),
	})
}

// handleReviewConfirm commits the operator's (possibly edited) field values
// for the current record and advances the queue.
func (s *Server) handleReviewConfirm(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Queue == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no review in progress"})
		return
	}

	rec, err := sess.Queue.Confirm(values, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	monitoring.RecordsConfirmed.Inc()
	s.monitor.IncrementMetric("records_confirmed")

	c.JSON(http.StatusOK, gin.H{
		"record": rec,
		"index":  sess.Queue.Index(),
		"total":  sess.Queue.Len(),
		"done":   sess.Queue.Done(),
	})
}

// handleAllocationCurrent returns the open McKesson statement row.
func (s *Server) handleAllocationCurrent(c *gin.Context) {
	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Run == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no allocation in progress"})
		return
	}

	state, err := sess.Run.Current()
	if errors.Is(err, review.ErrRunComplete) {
		c.JSON(http.StatusOK, gin.H{"done": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"done": false, "row": state})
}

// AllocateRequest is one manual line item drawn against the open row.
type AllocateRequest struct {
	Values map[string]string `json:"values"`
	Amount float64           `json:"amount"`
}

// handleAllocate records one line item against the open statement row.
func (s *Server) handleAllocate(c *gin.Context) {
	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Run == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no allocation in progress"})
		return
	}

	rec, err := sess.Run.Allocate(req.Values, req.Amount, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	monitoring.RecordsConfirmed.Inc()

	state, _ := sess.Run.Current()
	c.JSON(http.StatusOK, gin.H{"record": rec, "row": state})
}

// handleAllocationAdvance closes the open row, reporting any forfeited
// remainder.
func (s *Server) handleAllocationAdvance(c *gin.Context) {
	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Run == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no allocation in progress"})
		return
	}

	forfeited, err := sess.Run.Advance()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"forfeited": forfeited, "done": sess.Run.Done()})
}
