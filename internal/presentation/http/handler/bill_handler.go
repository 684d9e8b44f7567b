package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/billing"
	"github.com/saralbilling/saral-api/internal/domain/enum"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/request"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

func (h *BillHandler) buildInput(userID uuid.UUID, req *request.CreateBillRequest) *service.CreateBillInput {
	regime := enum.Regime(req.Regime)
	if regime == "" {
		regime = enum.RegimeGST
	}

	items := make([]service.BillLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.BillLineInput{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			Rate:          item.Rate,
			GSTPercentage: item.GSTPercentage,
			MRP:           item.MRP,
		})
	}

	splits := make([]billing.PaymentSplit, 0, len(req.Splits))
	for _, split := range req.Splits {
		splits = append(splits, billing.PaymentSplit{
			Method: split.Method,
			Amount: split.Amount,
		})
	}

	return &service.CreateBillInput{
		UserID:             userID,
		CustomerID:         req.CustomerID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		CustomerGSTIN:      req.CustomerGSTIN,
		Regime:             regime,
		DiscountPercentage: req.DiscountPercentage,
		NegotiatedAmount:   req.NegotiatedAmount,
		Items:              items,
		Splits:             splits,
	}
}

// Preview computes totals for a draft bill without persisting anything
func (h *BillHandler) Preview(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	preview, err := h.billService.PreviewBill(c.Request.Context(), h.buildInput(*userID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill computed successfully", preview)
}

// Create handles committing a bill
func (h *BillHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), h.buildInput(*userID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// Update re-submits a bill through the same pipeline as create
func (h *BillHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), id, h.buildInput(*userID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill updated successfully", bill)
}

// RecordPayment settles the outstanding credit on a bill
func (h *BillHandler) RecordPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		Splits []request.PaymentSplitRequest `json:"splits" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	splits := make([]billing.PaymentSplit, 0, len(req.Splits))
	for _, split := range req.Splits {
		splits = append(splits, billing.PaymentSplit{
			Method: split.Method,
			Amount: split.Amount,
		})
	}

	bill, err := h.billService.RecordPayment(c.Request.Context(), id, splits)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", bill)
}

// Get handles getting a single bill with its line items
func (h *BillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// GetByNo handles looking up a bill by its bill number
func (h *BillHandler) GetByNo(c *gin.Context) {
	billNo := c.Param("bill_no")
	if billNo == "" {
		response.BadRequest(c, "Bill number is required")
		return
	}

	bill, err := h.billService.GetBillByNo(c.Request.Context(), billNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// List handles listing bills
func (h *BillHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	switch filter.Status {
	case "active":
		status := enum.BillStatusActive
		params.Status = &status
	case "paid":
		status := enum.BillStatusPaid
		params.Status = &status
	case "cancelled":
		status := enum.BillStatusCancelled
		params.Status = &status
	case "":
	default:
		response.BadRequest(c, "Invalid status filter")
		return
	}

	if filter.Regime != "" {
		regime := enum.Regime(filter.Regime)
		if !regime.Valid() {
			response.BadRequest(c, "Invalid regime filter")
			return
		}
		params.Regime = &regime
	}

	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID filter")
			return
		}
		params.CustomerID = &customerID
	}

	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		end = end.Add(24*time.Hour - time.Second)
		params.EndDate = &end
	}

	result, err := h.billService.ListBills(scopedContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// GetPaymentSplits handles getting the decoded payment splits of a bill
func (h *BillHandler) GetPaymentSplits(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment splits retrieved successfully", h.billService.PaymentSplits(bill))
}

// Cancel handles cancelling a bill and restoring stock
func (h *BillHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := h.billService.CancelBill(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill cancelled successfully", nil)
}
