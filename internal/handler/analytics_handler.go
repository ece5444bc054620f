package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"billscan/internal/analytics"
	"billscan/internal/domain"
	"billscan/internal/service"
)

// AnalyticsHandler handles query and reporting endpoints.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// parseFilter builds an analytics.Filter from query parameters. Malformed
// numbers and dates are rejected here; range and regex validation happens
// in the analytics engine.
func parseFilter(c *gin.Context) (analytics.Filter, bool) {
	f := analytics.Filter{
		Keyword:  c.Query("keyword"),
		Pattern:  c.Query("pattern"),
		Category: domain.Category(c.Query("category")),
		Currency: c.Query("currency"),
	}

	if raw := c.Query("amount_min"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "amount_min is not a number")
			return f, false
		}
		f.AmountMin = &d
	}
	if raw := c.Query("amount_max"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "amount_max is not a number")
			return f, false
		}
		f.AmountMax = &d
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "date_from must be YYYY-MM-DD")
			return f, false
		}
		f.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "date_to must be YYYY-MM-DD")
			return f, false
		}
		f.DateTo = &t
	}
	return f, true
}

// Search handles GET /api/v1/analytics/search
func (h *AnalyticsHandler) Search(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	key := domain.SortKey(c.DefaultQuery("sort", string(domain.SortByCreated)))
	descending := c.DefaultQuery("order", "asc") == "desc"

	recs, err := h.analyticsService.Search(c.Request.Context(), f, key, descending)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, recs)
}

// Summary handles GET /api/v1/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	s, err := h.analyticsService.Summary(c.Request.Context(), f)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, s)
}

// TopVendors handles GET /api/v1/analytics/vendors
func (h *AnalyticsHandler) TopVendors(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	n, _ := strconv.Atoi(c.DefaultQuery("n", "10"))
	if n <= 0 || n > 100 {
		n = 10
	}

	rows, err := h.analyticsService.TopVendors(c.Request.Context(), f, n)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// CategoryBreakdown handles GET /api/v1/analytics/categories
func (h *AnalyticsHandler) CategoryBreakdown(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.CategoryBreakdown(c.Request.Context(), f)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// Trend handles GET /api/v1/analytics/trend
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	period := domain.Period(c.DefaultQuery("period", string(domain.PeriodMonth)))

	buckets, err := h.analyticsService.Trend(c.Request.Context(), f, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, buckets)
}

// Overview handles GET /api/v1/analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	o, err := h.analyticsService.Overview(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, o)
}
