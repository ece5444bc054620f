package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billscan/internal/analytics"
	"billscan/internal/domain"
	"billscan/internal/handler"
	"billscan/mocks"
)

func analyticsRouter(svc *mocks.MockAnalyticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewAnalyticsHandler(svc)
	r := gin.New()
	r.GET("/analytics/search", h.Search)
	r.GET("/analytics/summary", h.Summary)
	r.GET("/analytics/trend", h.Trend)
	return r
}

func TestAnalyticsHandler_SearchParsesFilter(t *testing.T) {
	svc := new(mocks.MockAnalyticsService)
	svc.On("Search", mock.Anything, mock.MatchedBy(func(f analytics.Filter) bool {
		return f.Keyword == "comcast" &&
			f.AmountMin != nil && f.AmountMin.String() == "10" &&
			f.DateFrom != nil && f.DateFrom.Format("2006-01-02") == "2024-01-01"
	}), domain.SortByAmount, true).Return([]domain.BillRecord{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/analytics/search?keyword=comcast&amount_min=10&date_from=2024-01-01&sort=amount&order=desc", nil)
	analyticsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAnalyticsHandler_SearchRejectsMalformedParams(t *testing.T) {
	svc := new(mocks.MockAnalyticsService)

	for _, query := range []string{"amount_min=abc", "date_to=01/05/2024"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/analytics/search?"+query, nil)
		analyticsRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	svc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsHandler_SearchInvalidQueryFromEngine(t *testing.T) {
	svc := new(mocks.MockAnalyticsService)
	svc.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrInvalidQuery)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analytics/search?pattern=%5Bbad", nil)
	analyticsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHandler_Summary(t *testing.T) {
	svc := new(mocks.MockAnalyticsService)
	svc.On("Summary", mock.Anything, analytics.Filter{}).Return(analytics.Summary{Count: 3}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analytics/summary", nil)
	analyticsRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":3`)
}

func TestAnalyticsHandler_TrendDefaultsToMonth(t *testing.T) {
	svc := new(mocks.MockAnalyticsService)
	svc.On("Trend", mock.Anything, analytics.Filter{}, domain.PeriodMonth).
		Return([]analytics.Bucket{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analytics/trend", nil)
	analyticsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
