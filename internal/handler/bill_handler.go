package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"billscan/internal/domain"
	"billscan/internal/service"
)

// BillHandler handles bill record endpoints.
type BillHandler struct {
	billService service.BillService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// IngestRequest is the payload for POST /api/v1/bills.
type IngestRequest struct {
	Text         string `json:"text" binding:"required"`
	Format       string `json:"format"`
	LanguageHint string `json:"language_hint"`
}

// CorrectionRequest is the payload for PATCH /api/v1/bills/:id/fields/:field.
type CorrectionRequest struct {
	Value string `json:"value" binding:"required"`
}

// Ingest handles POST /api/v1/bills
func (h *BillHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "text field is required")
		return
	}

	rec, err := h.billService.Ingest(c.Request.Context(), service.IngestInput{
		Text:         req.Text,
		Format:       req.Format,
		LanguageHint: req.LanguageHint,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rec)
}

// List handles GET /api/v1/bills
func (h *BillHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	recs, total, err := h.billService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, recs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/bills/:id
func (h *BillHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}

	rec, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// Reextract handles POST /api/v1/bills/:id/reextract
func (h *BillHandler) Reextract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}

	rec, err := h.billService.Reextract(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// Correct handles PATCH /api/v1/bills/:id/fields/:field
func (h *BillHandler) Correct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}

	var req CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "value field is required")
		return
	}

	rec, err := h.billService.Correct(c.Request.Context(), id, domain.Field(c.Param("field")), req.Value)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// GetRawTextURL handles GET /api/v1/bills/:id/raw
func (h *BillHandler) GetRawTextURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}

	url, err := h.billService.GetRawTextURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// Delete handles DELETE /api/v1/bills/:id
func (h *BillHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}

	if err := h.billService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
