package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/billing"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/enum"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	infraRepo "github.com/saralbilling/saral-api/internal/infrastructure/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/money"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// WebhookNotifier delivers domain events to subscribed endpoints. The bill
// service fires it after a bill is committed, never before.
type WebhookNotifier interface {
	Notify(ctx context.Context, event string, payload interface{})
}

// BillService drives the bill pipeline: compute lines, aggregate totals,
// reconcile payment splits, then persist. Validation failures surface
// before any database write.
type BillService struct {
	billRepo     repository.BillRepository
	billItemRepo repository.BillItemRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	tenantRepo   repository.TenantRepository
	notifier     WebhookNotifier
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repository.BillRepository,
	billItemRepo repository.BillItemRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	tenantRepo repository.TenantRepository,
	notifier WebhookNotifier,
) *BillService {
	return &BillService{
		billRepo:     billRepo,
		billItemRepo: billItemRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		tenantRepo:   tenantRepo,
		notifier:     notifier,
	}
}

// BillLineInput is one line as entered at the counter. ProductID is
// optional: ad-hoc lines carry their own name and rate.
type BillLineInput struct {
	ProductID     *uuid.UUID
	Name          string
	Unit          string
	Quantity      float64
	Rate          float64
	GSTPercentage float64
	MRP           float64
}

// CreateBillInput represents the create bill input
type CreateBillInput struct {
	UserID             uuid.UUID
	CustomerID         *uuid.UUID
	CustomerName       string
	CustomerPhone      string
	CustomerGSTIN      string
	Regime             enum.Regime
	DiscountPercentage float64
	NegotiatedAmount   float64
	Items              []BillLineInput
	Splits             []billing.PaymentSplit
}

// BillPreview holds computed totals for a draft bill, without persistence
type BillPreview struct {
	Lines   []billing.ComputedLine `json:"lines"`
	Totals  billing.BillTotals     `json:"totals"`
	Savings float64                `json:"savings"`
}

// buildLines resolves product-backed lines against the catalog and returns
// the engine's line items plus the stock decrements the bill will need.
func (s *BillService) buildLines(ctx context.Context, items []BillLineInput) ([]billing.LineItem, map[uuid.UUID]float64, map[uuid.UUID]*entity.Product, error) {
	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(productIDs))
	if len(productIDs) > 0 {
		products, err := s.productRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			return nil, nil, nil, err
		}
		for i := range products {
			productMap[products[i].ID] = &products[i]
		}
	}

	lines := make([]billing.LineItem, 0, len(items))
	decrements := make(map[uuid.UUID]float64)

	for _, item := range items {
		line := billing.LineItem{
			Name:          item.Name,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			Rate:          item.Rate,
			GSTPercentage: item.GSTPercentage,
			MRP:           item.MRP,
		}

		if item.ProductID != nil {
			product, exists := productMap[*item.ProductID]
			if !exists {
				return nil, nil, nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
			}
			line.ProductID = product.ID.String()
			if line.Name == "" {
				line.Name = product.Name
			}
			if line.Unit == "" {
				line.Unit = product.Unit
			}
			if line.MRP == 0 {
				line.MRP = money.FromPaise(product.MRP)
			}
			line.CostPrice = money.FromPaise(product.CostPrice)
			decrements[product.ID] += item.Quantity
		}

		lines = append(lines, line)
	}

	return lines, decrements, productMap, nil
}

// PreviewBill computes totals for a draft bill without touching stock or
// storage. Used by the counter UI while the cashier is still editing.
func (s *BillService) PreviewBill(ctx context.Context, input *CreateBillInput) (*BillPreview, error) {
	lines, _, _, err := s.buildLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	computed, err := billing.ComputeLines(lines)
	if err != nil {
		return nil, toEngineError(err)
	}

	totals, err := billing.Aggregate(computed, input.Regime, input.DiscountPercentage, input.NegotiatedAmount)
	if err != nil {
		return nil, toEngineError(err)
	}

	return &BillPreview{
		Lines:   computed,
		Totals:  totals,
		Savings: billing.Savings(computed),
	}, nil
}

// CreateBill runs the whole pipeline and commits the bill. The engine
// validates everything first; stock decrement and persistence happen only
// once the payment splits reconcile against the grand total.
func (s *BillService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	customerName, customerPhone, customerGSTIN, err := s.resolveCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	lines, decrements, productMap, err := s.buildLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	computed, err := billing.ComputeLines(lines)
	if err != nil {
		return nil, toEngineError(err)
	}

	totals, err := billing.Aggregate(computed, input.Regime, input.DiscountPercentage, input.NegotiatedAmount)
	if err != nil {
		return nil, toEngineError(err)
	}

	if err := validateSplitMethods(input.Splits); err != nil {
		return nil, err
	}
	if err := billing.ValidateSplits(input.Splits, totals.GrandTotal); err != nil {
		return nil, toEngineError(err)
	}

	paymentSnapshot, err := billing.EncodePaymentSplits(input.Splits)
	if err != nil {
		return nil, err
	}

	// Everything validated; from here on we touch shared state.
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		return nil, apperror.NewAppError(400, fmt.Sprintf("Insufficient stock for: %v", failedNames))
	}

	billNo, err := s.nextBillNo(ctx, tenantID)
	if err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}

	status, received := settlementState(input.Splits)

	bill := &entity.Bill{
		TenantID:           tenantID,
		UserID:             input.UserID,
		CustomerID:         input.CustomerID,
		BillNo:             billNo,
		BillDate:           time.Now(),
		Regime:             input.Regime,
		Status:             status,
		CustomerName:       customerName,
		CustomerPhone:      customerPhone,
		CustomerGSTIN:      customerGSTIN,
		Subtotal:           money.ToPaise(totals.Subtotal),
		GSTTotal:           money.ToPaise(totals.GSTTotal),
		DiscountPercentage: input.DiscountPercentage,
		DiscountAmount:     money.ToPaise(totals.DiscountAmount),
		NegotiatedAmount:   money.ToPaise(input.NegotiatedAmount),
		GSTPercentage:      billing.GSTPercentageForBill(computed),
		TotalAmount:        money.ToPaise(totals.GrandTotal),
		AmountReceived:     money.ToPaise(received),
		PaymentType:        paymentSnapshot,
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}

	if err := s.billItemRepo.CreateBatch(ctx, buildBillItems(bill.ID, computed)); err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}

	committed, err := s.billRepo.GetWithItems(ctx, bill.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && committed != nil {
		s.notifier.Notify(ctx, entity.WebhookEventBillCreated, committed)
	}

	return committed, nil
}

// resolveCustomer fills the bill's customer snapshot fields, looking
// the customer up when an ID is given and defaulting to walk-in.
func (s *BillService) resolveCustomer(ctx context.Context, input *CreateBillInput) (name, phone, gstin string, err error) {
	name = input.CustomerName
	phone = input.CustomerPhone
	gstin = input.CustomerGSTIN
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return "", "", "", err
		}
		if customer == nil {
			return "", "", "", apperror.NewNotFoundError("Customer")
		}
		name = customer.Name
		if customer.Phone != nil {
			phone = *customer.Phone
		}
		if gstin == "" && customer.GSTIN != nil {
			gstin = *customer.GSTIN
		}
	}
	if name == "" {
		name = entity.WalkInCustomerName
	}
	return name, phone, gstin, nil
}

// buildBillItems converts computed engine lines into persistable rows
func buildBillItems(billID uuid.UUID, computed []billing.ComputedLine) []entity.BillItem {
	items := make([]entity.BillItem, 0, len(computed))
	for _, line := range computed {
		item := entity.BillItem{
			BillID:        billID,
			Name:          line.Name,
			Unit:          line.Unit,
			Quantity:      line.Quantity,
			Rate:          money.ToPaise(line.Rate),
			GSTPercentage: line.GSTPercentage,
			Amount:        money.ToPaise(line.Amount),
			GSTAmount:     money.ToPaise(line.GSTAmount),
			LineTotal:     money.ToPaise(line.LineTotal),
			MRP:           money.ToPaise(line.MRP),
			CostPrice:     money.ToPaise(line.CostPrice),
		}
		if line.ProductID != "" {
			if pid, perr := uuid.Parse(line.ProductID); perr == nil {
				item.ProductID = &pid
			}
		}
		items = append(items, item)
	}
	return items
}

// validateSplitMethods rejects splits naming a method outside the
// fixed set; anything else would be persisted into the snapshot and
// come back unreadable for the method breakups.
func validateSplitMethods(splits []billing.PaymentSplit) error {
	for _, split := range splits {
		if !enum.PaymentMethod(split.Method).Valid() {
			return apperror.NewUnprocessableError(fmt.Sprintf("Unknown payment method %q", split.Method))
		}
	}
	return nil
}

// creditPortion sums the Credit splits, which the customer still owes
func creditPortion(splits []billing.PaymentSplit) float64 {
	var credit float64
	for _, s := range splits {
		if s.Method == string(enum.PaymentMethodCredit) {
			credit += s.Amount
		}
	}
	return money.Round2(credit)
}

// settlementState derives the bill status and the amount actually
// received. Credit splits settle the total on paper but leave the bill
// active until real payment is recorded.
func settlementState(splits []billing.PaymentSplit) (enum.BillStatus, float64) {
	credit := creditPortion(splits)
	received := money.Round2(billing.SplitTotal(splits) - credit)
	if credit > 0 {
		return enum.BillStatusActive, received
	}
	return enum.BillStatusPaid, received
}

// UpdateBill re-runs the whole pipeline against an existing bill: old
// stock is restored, new stock decremented, items replaced. The bill
// keeps its number and date.
func (s *BillService) UpdateBill(ctx context.Context, billID uuid.UUID, input *CreateBillInput) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if bill.Status == enum.BillStatusCancelled {
		return nil, apperror.NewAppError(400, "Cancelled bills cannot be edited")
	}

	customerName, customerPhone, customerGSTIN, err := s.resolveCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	lines, decrements, productMap, err := s.buildLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	computed, err := billing.ComputeLines(lines)
	if err != nil {
		return nil, toEngineError(err)
	}

	totals, err := billing.Aggregate(computed, input.Regime, input.DiscountPercentage, input.NegotiatedAmount)
	if err != nil {
		return nil, toEngineError(err)
	}

	if err := validateSplitMethods(input.Splits); err != nil {
		return nil, err
	}
	if err := billing.ValidateSplits(input.Splits, totals.GrandTotal); err != nil {
		return nil, toEngineError(err)
	}

	paymentSnapshot, err := billing.EncodePaymentSplits(input.Splits)
	if err != nil {
		return nil, err
	}

	restores := make(map[uuid.UUID]float64)
	for _, item := range bill.Items {
		if item.ProductID != nil {
			restores[*item.ProductID] += item.Quantity
		}
	}

	// Take the new stock before giving the old back: a failure here
	// leaves the original bill and its stock untouched.
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		return nil, apperror.NewAppError(400, fmt.Sprintf("Insufficient stock for: %v", failedNames))
	}
	if err := s.productRepo.AtomicIncrementBatch(ctx, restores); err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}

	status, received := settlementState(input.Splits)

	bill.CustomerID = input.CustomerID
	bill.CustomerName = customerName
	bill.CustomerPhone = customerPhone
	bill.CustomerGSTIN = customerGSTIN
	bill.Regime = input.Regime
	bill.Status = status
	bill.Subtotal = money.ToPaise(totals.Subtotal)
	bill.GSTTotal = money.ToPaise(totals.GSTTotal)
	bill.DiscountPercentage = input.DiscountPercentage
	bill.DiscountAmount = money.ToPaise(totals.DiscountAmount)
	bill.NegotiatedAmount = money.ToPaise(input.NegotiatedAmount)
	bill.GSTPercentage = billing.GSTPercentageForBill(computed)
	bill.TotalAmount = money.ToPaise(totals.GrandTotal)
	bill.AmountReceived = money.ToPaise(received)
	bill.PaymentType = paymentSnapshot

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}
	if err := s.billItemRepo.DeleteByBillID(ctx, billID); err != nil {
		return nil, err
	}
	if err := s.billItemRepo.CreateBatch(ctx, buildBillItems(billID, computed)); err != nil {
		return nil, err
	}

	committed, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && committed != nil {
		s.notifier.Notify(ctx, entity.WebhookEventBillUpdated, committed)
	}

	return committed, nil
}

// RecordPayment settles the outstanding credit on an active bill. The
// splits must cover the outstanding amount exactly and may not
// themselves be credit.
func (s *BillService) RecordPayment(ctx context.Context, billID uuid.UUID, splits []billing.PaymentSplit) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if bill.Status == enum.BillStatusCancelled {
		return nil, apperror.NewAppError(400, "Cancelled bills cannot accept payments")
	}

	outstanding := money.Round2(money.FromPaise(bill.TotalAmount - bill.AmountReceived))
	if outstanding <= 0 {
		return nil, apperror.NewAppError(400, "Bill is already settled")
	}

	for _, split := range splits {
		if split.Method == string(enum.PaymentMethodCredit) {
			return nil, apperror.NewBadRequestError("Credit cannot settle an outstanding credit")
		}
	}

	if err := validateSplitMethods(splits); err != nil {
		return nil, err
	}
	if err := billing.ValidateSplits(splits, outstanding); err != nil {
		return nil, toEngineError(err)
	}

	existing := billing.DecodePaymentSplits(bill.PaymentType, bill.GetTotalDecimal())
	settled := make([]billing.PaymentSplit, 0, len(existing)+len(splits))
	for _, split := range existing {
		if split.Method != string(enum.PaymentMethodCredit) {
			settled = append(settled, split)
		}
	}
	settled = append(settled, splits...)

	paymentSnapshot, err := billing.EncodePaymentSplits(settled)
	if err != nil {
		return nil, err
	}

	bill.PaymentType = paymentSnapshot
	bill.AmountReceived = money.ToPaise(money.Round2(money.FromPaise(bill.AmountReceived) + billing.SplitTotal(splits)))
	bill.Status = enum.BillStatusPaid

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, entity.WebhookEventBillUpdated, bill)
	}

	return bill, nil
}

// nextBillNo composes the tenant's bill prefix with the atomic sequence
func (s *BillService) nextBillNo(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := "BILL-"
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if tenant != nil && tenant.Settings.BillPrefix != "" {
		prefix = tenant.Settings.BillPrefix
	}

	seq, err := s.billRepo.NextBillSequence(ctx, tenantID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%06d", prefix, seq), nil
}

// GetBill retrieves a bill by ID with items and customer
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// GetBillByNo retrieves a bill by its bill number
func (s *BillService) GetBillByNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByBillNo(ctx, billNo)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return s.billRepo.GetWithItems(ctx, bill.ID)
}

// ListBills lists bills with filtering
func (s *BillService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// PaymentSplits decodes a bill's stored payment snapshot. Legacy rows
// holding a bare method string come back as a single full-amount split.
func (s *BillService) PaymentSplits(bill *entity.Bill) []billing.PaymentSplit {
	return billing.DecodePaymentSplits(bill.PaymentType, bill.GetTotalDecimal())
}

// CancelBill cancels a bill and restores stock for product-backed lines
func (s *BillService) CancelBill(ctx context.Context, userID, billID uuid.UUID) error {
	bill, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return apperror.NewNotFoundError("Bill")
	}

	if bill.Status == enum.BillStatusCancelled {
		return apperror.NewAppError(400, "Bill is already cancelled")
	}

	increments := make(map[uuid.UUID]float64)
	for _, item := range bill.Items {
		if item.ProductID != nil {
			increments[*item.ProductID] += item.Quantity
		}
	}

	if err := s.productRepo.AtomicIncrementBatch(ctx, increments); err != nil {
		return err
	}

	if err := s.billRepo.UpdateStatus(ctx, billID, enum.BillStatusCancelled); err != nil {
		return err
	}

	if s.notifier != nil {
		bill.Status = enum.BillStatusCancelled
		s.notifier.Notify(ctx, entity.WebhookEventBillCancelled, bill)
	}

	return nil
}

// toEngineError maps engine validation failures onto 422 responses;
// anything else passes through untouched.
func toEngineError(err error) error {
	if billing.IsValidationError(err) {
		return apperror.NewUnprocessableError(err.Error())
	}
	return err
}
