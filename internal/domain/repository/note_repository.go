package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// NoteRepository defines the interface for note data operations
type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *NoteFilterParams) ([]entity.Note, int64, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]entity.Note, error)
	GetByBillID(ctx context.Context, billID uuid.UUID) ([]entity.Note, error)
}

// NoteFilterParams contains filtering parameters for note queries
type NoteFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CustomerID *uuid.UUID
	BillID     *uuid.UUID
	Pinned     *bool
}
