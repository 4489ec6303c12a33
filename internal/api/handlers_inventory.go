package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"inventoryportal/internal/export"
	"inventoryportal/internal/ingest"
	"inventoryportal/internal/inventory"
	"inventoryportal/internal/monitoring"
	"inventoryportal/internal/schema"
	"inventoryportal/internal/tabular"
)

// handleSchema returns the canonical field schema driving every entry form.
func (s *Server) handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, schema.Fields())
}

// handleListInventory returns the session's records with summary totals.
func (s *Server) handleListInventory(c *gin.Context) {
	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"records": sess.Store.All(),
		"summary": sess.Store.Summarize(),
		"canUndo": sess.Store.CanUndo(),
	})
}

// handleManualEntry coerces a hand-filled form into a record and appends it
// directly, bypassing the review queue.
func (s *Server) handleManualEntry(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	rec := ingest.Normalize(values, time.Now(), ingest.Options{})
	sess.Store.Append(rec)
	monitoring.RecordsConfirmed.Inc()
	s.monitor.IncrementMetric("records_confirmed")

	c.JSON(http.StatusCreated, rec)
}

// handleEditRecord replaces the record at :index with the re-coerced form
// values. The stored total cost is always rederived from Qty and Value.
func (s *Server) handleEditRecord(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record index"})
		return
	}

	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	rec := ingest.Normalize(values, time.Now(), ingest.Options{})
	if err := sess.Store.Edit(index, rec); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, inventory.ErrIndexOutOfRange) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	updated, _ := sess.Store.Get(index)
	c.JSON(http.StatusOK, updated)
}

// handleDeleteRecord removes the record at :index, arming single-step undo.
func (s *Server) handleDeleteRecord(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record index"})
		return
	}

	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	if err := sess.Store.Delete(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": index, "canUndo": true})
}

// handleUndoDelete restores the most recently deleted record.
func (s *Server) handleUndoDelete(c *gin.Context) {
	sess := sessionFrom(c)
	sess.Lock()
	defer sess.Unlock()

	index, err := sess.Store.Undo()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": index})
}

// handleInventoryExport streams the session's records as a styled workbook.
func (s *Server) handleInventoryExport(c *gin.Context) {
	sess := sessionFrom(c)
	sess.Lock()
	records := sess.Store.All()
	sess.Unlock()

	buf, err := export.Inventory(records)
	if err != nil {
		s.log.WithField("err", err).Error("inventory export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	c.Data(http.StatusOK, tabular.XLSXContentType, buf.Bytes())
}
