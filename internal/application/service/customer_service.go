package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	infraRepo "github.com/saralbilling/saral-api/internal/infrastructure/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	noteRepo     repository.NoteRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, noteRepo repository.NoteRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, noteRepo: noteRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	UserID    uuid.UUID
	Name      string
	Phone     *string
	Email     *string
	GSTIN     string
	Address   *string
	StateCode *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.Phone != nil && *input.Phone != "" {
		existing, err := s.customerRepo.GetByPhone(ctx, *input.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Customer with this phone already exists")
		}
	}

	customer := &entity.Customer{
		TenantID:  tenantID,
		UserID:    input.UserID,
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		StateCode: input.StateCode,
	}
	if input.GSTIN != "" {
		gstin := input.GSTIN
		customer.GSTIN = &gstin
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// FindByPhone looks up a customer by phone for counter-side autofill
func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with search and pagination
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	IsSuperAdmin bool
	Name         *string
	Phone        *string
	Email        *string
	GSTIN        *string
	Address      *string
	StateCode    *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if !input.IsSuperAdmin && customer.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.GSTIN != nil {
		customer.GSTIN = input.GSTIN
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.StateCode != nil {
		customer.StateCode = input.StateCode
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, userID, id uuid.UUID, isSuperAdmin bool) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	if !isSuperAdmin && customer.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.customerRepo.Delete(ctx, id)
}

// GetCustomerNotes returns the notes attached to a customer
func (s *CustomerService) GetCustomerNotes(ctx context.Context, customerID uuid.UUID) ([]entity.Note, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return s.noteRepo.GetByCustomerID(ctx, customerID)
}
