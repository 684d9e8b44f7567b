package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	infraRepo "github.com/saralbilling/saral-api/internal/infrastructure/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// NoteService handles note business logic
type NoteService struct {
	noteRepo     repository.NoteRepository
	customerRepo repository.CustomerRepository
	billRepo     repository.BillRepository
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo repository.NoteRepository, customerRepo repository.CustomerRepository, billRepo repository.BillRepository) *NoteService {
	return &NoteService{
		noteRepo:     noteRepo,
		customerRepo: customerRepo,
		billRepo:     billRepo,
	}
}

// CreateNoteInput represents the input for creating a note
type CreateNoteInput struct {
	UserID     uuid.UUID
	CustomerID *uuid.UUID
	BillID     *uuid.UUID
	Title      string
	Body       string
	Pinned     bool
}

// CreateNote creates a note attached to a customer or a bill
func (s *NoteService) CreateNote(ctx context.Context, input *CreateNoteInput) (*entity.Note, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, apperror.NewBadRequestError("Note body is required")
	}
	if input.CustomerID != nil && input.BillID != nil {
		return nil, apperror.NewBadRequestError("A note can be attached to a customer or a bill, not both")
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}
	if input.BillID != nil {
		bill, err := s.billRepo.GetByID(ctx, *input.BillID)
		if err != nil {
			return nil, err
		}
		if bill == nil {
			return nil, apperror.NewNotFoundError("Bill")
		}
	}

	note := &entity.Note{
		TenantID:   tenantID,
		UserID:     input.UserID,
		CustomerID: input.CustomerID,
		BillID:     input.BillID,
		Title:      input.Title,
		Body:       input.Body,
		Pinned:     input.Pinned,
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// GetNote retrieves a note by ID
func (s *NoteService) GetNote(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NewNotFoundError("Note")
	}
	return note, nil
}

// ListNotes retrieves notes matching the filters
func (s *NoteService) ListNotes(ctx context.Context, params *repository.NoteFilterParams) ([]entity.Note, *pagination.Pagination, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	notes, total, err := s.noteRepo.List(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return notes, pag, nil
}

// UpdateNoteInput represents the input for updating a note
type UpdateNoteInput struct {
	Title  *string
	Body   *string
	Pinned *bool
}

// UpdateNote updates a note's title, body or pinned state
func (s *NoteService) UpdateNote(ctx context.Context, id uuid.UUID, input *UpdateNoteInput) (*entity.Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, apperror.NewBadRequestError("Note body is required")
		}
		note.Body = *input.Body
	}
	if input.Pinned != nil {
		note.Pinned = *input.Pinned
	}

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// DeleteNote soft-deletes a note
func (s *NoteService) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetNote(ctx, id); err != nil {
		return err
	}
	return s.noteRepo.Delete(ctx, id)
}

// GetBillNotes retrieves all notes attached to a bill
func (s *NoteService) GetBillNotes(ctx context.Context, billID uuid.UUID) ([]entity.Note, error) {
	return s.noteRepo.GetByBillID(ctx, billID)
}
