package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billscan/internal/domain"
	"billscan/internal/handler"
	"billscan/internal/service"
	"billscan/mocks"
)

func billRouter(svc *mocks.MockBillService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewBillHandler(svc)
	r := gin.New()
	r.POST("/bills", h.Ingest)
	r.GET("/bills/:id", h.GetByID)
	r.PATCH("/bills/:id/fields/:field", h.Correct)
	r.DELETE("/bills/:id", h.Delete)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBillHandler_Ingest(t *testing.T) {
	svc := new(mocks.MockBillService)
	vendor := "Comcast"
	rec := &domain.BillRecord{ID: uuid.New(), Vendor: &vendor, Fields: domain.FieldMetaMap{}}
	svc.On("Ingest", mock.Anything, service.IngestInput{Text: "NEW BALANCE: $129.99"}).Return(rec, nil)

	body, _ := json.Marshal(gin.H{"text": "NEW BALANCE: $129.99"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bills", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	billRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
	svc.AssertExpectations(t)
}

func TestBillHandler_IngestMissingText(t *testing.T) {
	svc := new(mocks.MockBillService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bills", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	billRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_BODY", resp.Error.Code)
	svc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestBillHandler_GetByID(t *testing.T) {
	svc := new(mocks.MockBillService)
	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrRecordNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bills/"+id.String(), nil)
	billRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECORD_NOT_FOUND", decodeEnvelope(t, w).Error.Code)
}

func TestBillHandler_GetByIDBadUUID(t *testing.T) {
	svc := new(mocks.MockBillService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bills/not-a-uuid", nil)
	billRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBillHandler_CorrectConflict(t *testing.T) {
	svc := new(mocks.MockBillService)
	id := uuid.New()
	svc.On("Correct", mock.Anything, id, domain.Field("subtotal"), "1.00").
		Return(nil, domain.ErrCorrectionConflict)

	body, _ := json.Marshal(gin.H{"value": "1.00"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/bills/"+id.String()+"/fields/subtotal", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	billRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CORRECTION_CONFLICT", decodeEnvelope(t, w).Error.Code)
}

func TestBillHandler_Delete(t *testing.T) {
	svc := new(mocks.MockBillService)
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/bills/"+id.String(), nil)
	billRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
