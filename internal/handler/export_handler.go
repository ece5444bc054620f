package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"billscan/internal/config"
	"billscan/internal/domain"
	"billscan/internal/export"
	"billscan/internal/service"
)

// ExportHandler streams filtered record sets as CSV or XLSX downloads.
type ExportHandler struct {
	analyticsService service.AnalyticsService
	cfg              *config.ExportConfig
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(analyticsService service.AnalyticsService, cfg *config.ExportConfig) *ExportHandler {
	return &ExportHandler{analyticsService: analyticsService, cfg: cfg}
}

func (h *ExportHandler) load(c *gin.Context) ([]domain.BillRecord, bool) {
	f, ok := parseFilter(c)
	if !ok {
		return nil, false
	}
	key := domain.SortKey(c.DefaultQuery("sort", string(domain.SortByDate)))
	descending := c.DefaultQuery("order", "asc") == "desc"

	recs, err := h.analyticsService.Search(c.Request.Context(), f, key, descending)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	if h.cfg.MaxRows > 0 && len(recs) > h.cfg.MaxRows {
		recs = recs[:h.cfg.MaxRows]
	}
	return recs, true
}

func exportFilename(ext string) string {
	return fmt.Sprintf("bills-%s.%s", time.Now().UTC().Format("20060102-150405"), ext)
}

// CSV handles GET /api/v1/export/csv
func (h *ExportHandler) CSV(c *gin.Context) {
	recs, ok := h.load(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteRecords(recs); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename("csv")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// XLSX handles GET /api/v1/export/xlsx
func (h *ExportHandler) XLSX(c *gin.Context) {
	recs, ok := h.load(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, recs); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename("xlsx")+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
