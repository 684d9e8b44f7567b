package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/billing"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/enum"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	infraRepo "github.com/saralbilling/saral-api/internal/infrastructure/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billRepoStub struct {
	repository.BillRepository
	created *entity.Bill
	seq     int64
}

func (s *billRepoStub) Create(_ context.Context, bill *entity.Bill) error {
	bill.ID = uuid.New()
	s.created = bill
	return nil
}

func (s *billRepoStub) GetWithItems(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	if s.created == nil || s.created.ID != id {
		return nil, nil
	}
	return s.created, nil
}

func (s *billRepoStub) NextBillSequence(_ context.Context, _ uuid.UUID) (int64, error) {
	s.seq++
	return s.seq, nil
}

func (s *billRepoStub) Update(_ context.Context, bill *entity.Bill) error {
	s.created = bill
	return nil
}

func (s *billRepoStub) UpdateStatus(_ context.Context, id uuid.UUID, status enum.BillStatus) error {
	if s.created != nil && s.created.ID == id {
		s.created.Status = status
	}
	return nil
}

type billItemRepoStub struct {
	repository.BillItemRepository
	items []entity.BillItem
}

func (s *billItemRepoStub) CreateBatch(_ context.Context, items []entity.BillItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *billItemRepoStub) DeleteByBillID(_ context.Context, _ uuid.UUID) error {
	s.items = nil
	return nil
}

type productRepoStub struct {
	repository.ProductRepository
	products   map[uuid.UUID]entity.Product
	failIDs    []uuid.UUID
	decrements map[uuid.UUID]float64
	increments map[uuid.UUID]float64
}

func (s *productRepoStub) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *productRepoStub) AtomicDecrementBatch(_ context.Context, decrements map[uuid.UUID]float64) ([]uuid.UUID, error) {
	if len(s.failIDs) > 0 {
		return s.failIDs, nil
	}
	s.decrements = decrements
	return nil, nil
}

func (s *productRepoStub) AtomicIncrementBatch(_ context.Context, increments map[uuid.UUID]float64) error {
	s.increments = increments
	return nil
}

type customerRepoStub struct {
	repository.CustomerRepository
	customers map[uuid.UUID]*entity.Customer
}

func (s *customerRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return s.customers[id], nil
}

type tenantRepoStub struct {
	repository.TenantRepository
	tenant *entity.Tenant
}

func (s *tenantRepoStub) GetByID(_ context.Context, _ uuid.UUID) (*entity.Tenant, error) {
	return s.tenant, nil
}

type notifierStub struct {
	events []string
}

func (n *notifierStub) Notify(_ context.Context, event string, _ interface{}) {
	n.events = append(n.events, event)
}

type billServiceFixture struct {
	service   *BillService
	bills     *billRepoStub
	items     *billItemRepoStub
	products  *productRepoStub
	customers *customerRepoStub
	tenants   *tenantRepoStub
	notifier  *notifierStub
	ctx       context.Context
	tenantID  uuid.UUID
}

func newBillServiceFixture() *billServiceFixture {
	f := &billServiceFixture{
		bills:     &billRepoStub{},
		items:     &billItemRepoStub{},
		products:  &productRepoStub{products: map[uuid.UUID]entity.Product{}},
		customers: &customerRepoStub{customers: map[uuid.UUID]*entity.Customer{}},
		tenants:   &tenantRepoStub{},
		notifier:  &notifierStub{},
		tenantID:  uuid.New(),
	}
	f.service = NewBillService(f.bills, f.items, f.products, f.customers, f.tenants, f.notifier)
	f.ctx = infraRepo.WithTenant(context.Background(), f.tenantID)
	return f
}

func (f *billServiceFixture) addProduct(name string, stock float64) uuid.UUID {
	id := uuid.New()
	f.products.products[id] = entity.Product{
		ID:        id,
		TenantID:  f.tenantID,
		Name:      name,
		Unit:      "kg",
		MRP:       12500, // 125.00
		CostPrice: 8000,
		Stock:     stock,
	}
	return id
}

func adhocInput(splits ...billing.PaymentSplit) *CreateBillInput {
	return &CreateBillInput{
		UserID: uuid.New(),
		Regime: enum.RegimeGST,
		Items: []BillLineInput{
			{Name: "Sugar", Unit: "kg", Quantity: 2, Rate: 100, GSTPercentage: 18},
		},
		Splits: splits,
	}
}

func TestPreviewBill(t *testing.T) {
	f := newBillServiceFixture()

	preview, err := f.service.PreviewBill(f.ctx, adhocInput())
	require.NoError(t, err)

	require.Len(t, preview.Lines, 1)
	assert.Equal(t, 200.0, preview.Lines[0].Amount)
	assert.Equal(t, 36.0, preview.Lines[0].GSTAmount)
	assert.Equal(t, 200.0, preview.Totals.Subtotal)
	assert.Equal(t, 36.0, preview.Totals.GSTTotal)
	assert.Equal(t, 236.0, preview.Totals.GrandTotal)
}

func TestPreviewBillResolvesProductFields(t *testing.T) {
	f := newBillServiceFixture()
	productID := f.addProduct("Tea Powder", 50)

	preview, err := f.service.PreviewBill(f.ctx, &CreateBillInput{
		Regime: enum.RegimeGST,
		Items: []BillLineInput{
			{ProductID: &productID, Quantity: 2, Rate: 100, GSTPercentage: 18},
		},
	})
	require.NoError(t, err)

	require.Len(t, preview.Lines, 1)
	assert.Equal(t, "Tea Powder", preview.Lines[0].Name)
	assert.Equal(t, "kg", preview.Lines[0].Unit)
	assert.Equal(t, 125.0, preview.Lines[0].MRP)
	assert.Equal(t, 50.0, preview.Savings)
}

func TestPreviewBillUnknownProduct(t *testing.T) {
	f := newBillServiceFixture()
	missing := uuid.New()

	_, err := f.service.PreviewBill(f.ctx, &CreateBillInput{
		Regime: enum.RegimeGST,
		Items:  []BillLineInput{{ProductID: &missing, Quantity: 1, Rate: 10}},
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestCreateBill(t *testing.T) {
	f := newBillServiceFixture()
	productID := f.addProduct("Sugar", 50)

	input := &CreateBillInput{
		UserID: uuid.New(),
		Regime: enum.RegimeGST,
		Items: []BillLineInput{
			{ProductID: &productID, Quantity: 2, Rate: 100, GSTPercentage: 18},
		},
		Splits: []billing.PaymentSplit{
			{Method: "Cash", Amount: 100},
			{Method: "UPI", Amount: 136},
		},
	}

	bill, err := f.service.CreateBill(f.ctx, input)
	require.NoError(t, err)
	require.NotNil(t, bill)

	assert.Equal(t, "BILL-000001", bill.BillNo)
	assert.Equal(t, f.tenantID, bill.TenantID)
	assert.Equal(t, entity.WalkInCustomerName, bill.CustomerName)
	assert.Equal(t, enum.BillStatusPaid, bill.Status)
	assert.Equal(t, int64(20000), bill.Subtotal)
	assert.Equal(t, int64(3600), bill.GSTTotal)
	assert.Equal(t, int64(23600), bill.TotalAmount)
	assert.Equal(t, int64(23600), bill.AmountReceived)

	assert.Equal(t, map[uuid.UUID]float64{productID: 2}, f.products.decrements)
	require.Len(t, f.items.items, 1)
	assert.Equal(t, int64(20000), f.items.items[0].Amount)
	assert.Equal(t, []string{entity.WebhookEventBillCreated}, f.notifier.events)

	splits := f.service.PaymentSplits(bill)
	require.Len(t, splits, 2)
	assert.Equal(t, "Cash", splits[0].Method)
	assert.Equal(t, 100.0, splits[0].Amount)
}

func TestCreateBillCopiesCustomerSnapshot(t *testing.T) {
	f := newBillServiceFixture()
	phone := "9876543210"
	gstin := "29ABCDE1234F1Z5"
	customerID := uuid.New()
	f.customers.customers[customerID] = &entity.Customer{
		ID:       customerID,
		TenantID: f.tenantID,
		Name:     "Ashok Traders",
		Phone:    &phone,
		GSTIN:    &gstin,
	}

	input := adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 236})
	input.CustomerID = &customerID

	bill, err := f.service.CreateBill(f.ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "Ashok Traders", bill.CustomerName)
	assert.Equal(t, "9876543210", bill.CustomerPhone)
	assert.Equal(t, "29ABCDE1234F1Z5", bill.CustomerGSTIN)
}

func TestCreateBillCustomerWithoutGSTIN(t *testing.T) {
	f := newBillServiceFixture()
	customerID := uuid.New()
	f.customers.customers[customerID] = &entity.Customer{
		ID:       customerID,
		TenantID: f.tenantID,
		Name:     "Ravi",
	}

	input := adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 236})
	input.CustomerID = &customerID

	bill, err := f.service.CreateBill(f.ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "Ravi", bill.CustomerName)
	assert.Empty(t, bill.CustomerPhone)
	assert.Empty(t, bill.CustomerGSTIN)
}

func TestCreateBillUnknownCustomer(t *testing.T) {
	f := newBillServiceFixture()
	missing := uuid.New()

	input := adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 236})
	input.CustomerID = &missing

	_, err := f.service.CreateBill(f.ctx, input)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestCreateBillRejectsUnknownPaymentMethod(t *testing.T) {
	f := newBillServiceFixture()

	_, err := f.service.CreateBill(f.ctx, adhocInput(billing.PaymentSplit{Method: "Bitcoin", Amount: 236}))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)
	assert.Contains(t, appErr.Message, "Bitcoin")
	assert.Nil(t, f.bills.created)
	assert.Nil(t, f.products.decrements)
}

func TestCreateBillUsesTenantBillPrefix(t *testing.T) {
	f := newBillServiceFixture()
	f.tenants.tenant = &entity.Tenant{
		ID:       f.tenantID,
		Settings: entity.TenantSettings{BillPrefix: "ASH-"},
	}

	bill, err := f.service.CreateBill(f.ctx, adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 236}))
	require.NoError(t, err)
	assert.Equal(t, "ASH-000001", bill.BillNo)
}

func TestCreateBillRequiresTenantContext(t *testing.T) {
	f := newBillServiceFixture()

	_, err := f.service.CreateBill(context.Background(), adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 236}))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestCreateBillPaymentMismatch(t *testing.T) {
	f := newBillServiceFixture()

	_, err := f.service.CreateBill(f.ctx, adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 200}))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)
	assert.Nil(t, f.bills.created)
	assert.Nil(t, f.products.decrements, "stock must be untouched when splits do not reconcile")
	assert.Empty(t, f.notifier.events)
}

func TestCreateBillInsufficientStock(t *testing.T) {
	f := newBillServiceFixture()
	productID := f.addProduct("Sugar", 1)
	f.products.failIDs = []uuid.UUID{productID}

	_, err := f.service.CreateBill(f.ctx, &CreateBillInput{
		Regime: enum.RegimeGST,
		Items: []BillLineInput{
			{ProductID: &productID, Quantity: 5, Rate: 100, GSTPercentage: 18},
		},
		Splits: []billing.PaymentSplit{{Method: "Cash", Amount: 590}},
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Message, "Sugar")
	assert.Nil(t, f.bills.created)
}

func TestCreateBillWithCreditStaysActive(t *testing.T) {
	f := newBillServiceFixture()

	bill, err := f.service.CreateBill(f.ctx, adhocInput(
		billing.PaymentSplit{Method: "Cash", Amount: 100},
		billing.PaymentSplit{Method: "Credit", Amount: 136},
	))
	require.NoError(t, err)

	assert.Equal(t, enum.BillStatusActive, bill.Status)
	assert.Equal(t, int64(10000), bill.AmountReceived)
	assert.Equal(t, int64(23600), bill.TotalAmount)
}

func TestRecordPayment(t *testing.T) {
	f := newBillServiceFixture()

	bill, err := f.service.CreateBill(f.ctx, adhocInput(
		billing.PaymentSplit{Method: "Cash", Amount: 100},
		billing.PaymentSplit{Method: "Credit", Amount: 136},
	))
	require.NoError(t, err)

	settled, err := f.service.RecordPayment(f.ctx, bill.ID, []billing.PaymentSplit{
		{Method: "UPI", Amount: 136},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.BillStatusPaid, settled.Status)
	assert.Equal(t, int64(23600), settled.AmountReceived)

	splits := f.service.PaymentSplits(settled)
	require.Len(t, splits, 2)
	assert.Equal(t, "Cash", splits[0].Method)
	assert.Equal(t, "UPI", splits[1].Method)
	assert.Equal(t, 136.0, splits[1].Amount)

	assert.Equal(t, []string{entity.WebhookEventBillCreated, entity.WebhookEventBillUpdated}, f.notifier.events)
}

func TestRecordPaymentRejectsWrongAmount(t *testing.T) {
	f := newBillServiceFixture()

	bill, err := f.service.CreateBill(f.ctx, adhocInput(
		billing.PaymentSplit{Method: "Cash", Amount: 100},
		billing.PaymentSplit{Method: "Credit", Amount: 136},
	))
	require.NoError(t, err)

	_, err = f.service.RecordPayment(f.ctx, bill.ID, []billing.PaymentSplit{
		{Method: "Cash", Amount: 50},
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)
}

func TestRecordPaymentOnSettledBill(t *testing.T) {
	f := newBillServiceFixture()

	bill, err := f.service.CreateBill(f.ctx, adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 236}))
	require.NoError(t, err)

	_, err = f.service.RecordPayment(f.ctx, bill.ID, []billing.PaymentSplit{
		{Method: "Cash", Amount: 10},
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestRecordPaymentRejectsCredit(t *testing.T) {
	f := newBillServiceFixture()

	bill, err := f.service.CreateBill(f.ctx, adhocInput(
		billing.PaymentSplit{Method: "Cash", Amount: 100},
		billing.PaymentSplit{Method: "Credit", Amount: 136},
	))
	require.NoError(t, err)

	_, err = f.service.RecordPayment(f.ctx, bill.ID, []billing.PaymentSplit{
		{Method: "Credit", Amount: 136},
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestUpdateBill(t *testing.T) {
	f := newBillServiceFixture()
	productID := f.addProduct("Sugar", 50)

	bill, err := f.service.CreateBill(f.ctx, &CreateBillInput{
		UserID: uuid.New(),
		Regime: enum.RegimeGST,
		Items: []BillLineInput{
			{ProductID: &productID, Quantity: 2, Rate: 100, GSTPercentage: 18},
		},
		Splits: []billing.PaymentSplit{{Method: "Cash", Amount: 236}},
	})
	require.NoError(t, err)
	bill.Items = f.items.items

	updated, err := f.service.UpdateBill(f.ctx, bill.ID, &CreateBillInput{
		UserID: bill.UserID,
		Regime: enum.RegimeGST,
		Items: []BillLineInput{
			{ProductID: &productID, Quantity: 3, Rate: 100, GSTPercentage: 18},
		},
		Splits: []billing.PaymentSplit{{Method: "UPI", Amount: 354}},
	})
	require.NoError(t, err)

	assert.Equal(t, bill.BillNo, updated.BillNo)
	assert.Equal(t, int64(30000), updated.Subtotal)
	assert.Equal(t, int64(35400), updated.TotalAmount)
	assert.Equal(t, int64(35400), updated.AmountReceived)

	assert.Equal(t, map[uuid.UUID]float64{productID: 3}, f.products.decrements)
	assert.Equal(t, map[uuid.UUID]float64{productID: 2}, f.products.increments, "old stock must be restored")
	require.Len(t, f.items.items, 1)
	assert.Equal(t, 3.0, f.items.items[0].Quantity)

	assert.Equal(t, []string{entity.WebhookEventBillCreated, entity.WebhookEventBillUpdated}, f.notifier.events)
}

func TestUpdateBillCancelled(t *testing.T) {
	f := newBillServiceFixture()

	bill, err := f.service.CreateBill(f.ctx, adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 236}))
	require.NoError(t, err)

	require.NoError(t, f.service.CancelBill(f.ctx, bill.UserID, bill.ID))

	_, err = f.service.UpdateBill(f.ctx, bill.ID, adhocInput(billing.PaymentSplit{Method: "Cash", Amount: 236}))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestCancelBill(t *testing.T) {
	f := newBillServiceFixture()
	productID := f.addProduct("Sugar", 50)

	bill, err := f.service.CreateBill(f.ctx, &CreateBillInput{
		UserID: uuid.New(),
		Regime: enum.RegimeGST,
		Items: []BillLineInput{
			{ProductID: &productID, Quantity: 2, Rate: 100, GSTPercentage: 18},
		},
		Splits: []billing.PaymentSplit{{Method: "Cash", Amount: 236}},
	})
	require.NoError(t, err)

	bill.Items = f.items.items
	err = f.service.CancelBill(f.ctx, bill.UserID, bill.ID)
	require.NoError(t, err)

	assert.Equal(t, enum.BillStatusCancelled, f.bills.created.Status)
	assert.Equal(t, map[uuid.UUID]float64{productID: 2}, f.products.increments)
	assert.Equal(t, []string{entity.WebhookEventBillCreated, entity.WebhookEventBillCancelled}, f.notifier.events)

	err = f.service.CancelBill(f.ctx, bill.UserID, bill.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}
