package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
	"github.com/leggyong/berkeley-expense2/internal/application/service"
	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

// maxReceiptSize caps receipt uploads at 10 MiB.
const maxReceiptSize = 10 << 20

// Handlers contains all HTTP request handlers.
type Handlers struct {
	directoryService service.DirectoryService
	stagingService   service.StagingService
	claimService     service.ClaimService
	exportService    service.ExportService
	receiptStorage   port.ReceiptStorage
	logger           Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	directoryService service.DirectoryService,
	stagingService service.StagingService,
	claimService service.ClaimService,
	exportService service.ExportService,
	receiptStorage port.ReceiptStorage,
	logger Logger,
) *Handlers {
	return &Handlers{
		directoryService: directoryService,
		stagingService:   stagingService,
		claimService:     claimService,
		exportService:    exportService,
		receiptStorage:   receiptStorage,
		logger:           logger,
	}
}

// Response represents a standard JSON response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

const userContextKey = "current_user"

// RequireUser resolves the X-User-ID header against the directory. It is a
// stand-in for a real identity provider, which is out of scope.
func (h *Handlers) RequireUser(c *gin.Context) {
	idStr := c.GetHeader("X-User-ID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
			Success: false,
			Error:   "missing or invalid X-User-ID header",
		})
		return
	}

	user, err := h.directoryService.Get(c.Request.Context(), id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
			Success: false,
			Error:   "unknown user",
		})
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*entity.User); ok {
			return user
		}
	}
	return nil
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ListUsers handles GET /api/v1/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.directoryService.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: users})
}

// ListCategories handles GET /api/v1/catalog/categories.
func (h *Handlers) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: entity.Categories()})
}

// ListOffices handles GET /api/v1/catalog/offices.
func (h *Handlers) ListOffices(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: entity.Offices()})
}

// ListCurrencies handles GET /api/v1/catalog/currencies.
func (h *Handlers) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: entity.Currencies()})
}

// UploadReceipt handles POST /api/v1/receipts (multipart form, field
// "receipt"). Returns the stable reference for the stored artifact.
func (h *Handlers) UploadReceipt(c *gin.Context) {
	file, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "receipt file is required"})
		return
	}
	if file.Size > maxReceiptSize {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "receipt too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ref, err := h.receiptStorage.Save(c.Request.Context(), file.Filename, content)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: gin.H{"ref": ref}})
}

// PreviewReceipt handles GET /api/v1/receipts/:ref/preview.
func (h *Handlers) PreviewReceipt(c *gin.Context) {
	ref := c.Param("ref")
	if !h.receiptStorage.Exists(c.Request.Context(), ref) {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "receipt not found"})
		return
	}

	preview, contentType, err := h.receiptStorage.Preview(c.Request.Context(), ref)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, preview)
}

// stageExpenseRequest is the expense entry form payload.
type stageExpenseRequest struct {
	Merchant    string `json:"merchant"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
	Attendees   string `json:"attendees"`
	GuestCount  int    `json:"guest_count"`
	ReceiptRef  string `json:"receipt_ref"`
}

// StageExpense handles POST /api/v1/expenses.
func (h *Handlers) StageExpense(c *gin.Context) {
	var req stageExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid amount"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid date, expected YYYY-MM-DD"})
		return
	}

	item, err := h.stagingService.Add(c.Request.Context(), currentUser(c), service.AddExpenseInput{
		Merchant:    req.Merchant,
		Amount:      amount,
		Currency:    req.Currency,
		Date:        date,
		Category:    entity.Category(req.Category),
		Subcategory: req.Subcategory,
		Description: req.Description,
		Attendees:   req.Attendees,
		GuestCount:  req.GuestCount,
		ReceiptRef:  req.ReceiptRef,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: item})
}

// ListStagedExpenses handles GET /api/v1/expenses, grouped by category.
func (h *Handlers) ListStagedExpenses(c *gin.Context) {
	groups, err := h.stagingService.ListGrouped(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: groups})
}

// RemoveStagedExpense handles DELETE /api/v1/expenses/:id.
func (h *Handlers) RemoveStagedExpense(c *gin.Context) {
	if err := h.stagingService.Remove(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// SubmitClaim handles POST /api/v1/claims.
func (h *Handlers) SubmitClaim(c *gin.Context) {
	claim, err := h.claimService.Submit(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: claim})
}

// ListClaims handles GET /api/v1/claims.
func (h *Handlers) ListClaims(c *gin.Context) {
	claims, err := h.claimService.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// GetClaim handles GET /api/v1/claims/:id.
func (h *Handlers) GetClaim(c *gin.Context) {
	claim, err := h.claimService.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// reviewRequest carries the optional reviewer comment.
type reviewRequest struct {
	Comment string `json:"comment"`
}

// ApproveClaim handles POST /api/v1/claims/:id/approve.
func (h *Handlers) ApproveClaim(c *gin.Context) {
	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	claim, err := h.claimService.Approve(c.Request.Context(), currentUser(c), c.Param("id"), req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// RejectClaim handles POST /api/v1/claims/:id/reject.
func (h *Handlers) RejectClaim(c *gin.Context) {
	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	claim, err := h.claimService.Reject(c.Request.Context(), currentUser(c), c.Param("id"), req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// ExportClaim handles GET /api/v1/claims/:id/export, returning the claim as
// a spreadsheet download.
func (h *Handlers) ExportClaim(c *gin.Context) {
	content, filename, err := h.exportService.ExportClaim(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// Logout handles POST /api/v1/logout. Staging is cleared, not archived.
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.stagingService.Clear(c.Request.Context(), currentUser(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// respondError maps the service error taxonomy onto HTTP status codes.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrState):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}
