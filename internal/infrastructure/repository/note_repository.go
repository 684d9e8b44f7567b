package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	domainRepo "github.com/saralbilling/saral-api/internal/domain/repository"
	"gorm.io/gorm"
)

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *gorm.DB) domainRepo.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	var note entity.Note
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

func (r *noteRepository) Update(ctx context.Context, note *entity.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Note{}, "id = ?", id).Error
}

func (r *noteRepository) List(ctx context.Context, params *domainRepo.NoteFilterParams) ([]entity.Note, int64, error) {
	var notes []entity.Note
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Note{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		query = query.Where("title ILIKE ? OR body ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.BillID != nil {
		query = query.Where("bill_id = ?", *params.BillID)
	}

	if params.Pinned != nil {
		query = query.Where("pinned = ?", *params.Pinned)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("pinned DESC, created_at DESC").
		Find(&notes).Error

	return notes, total, err
}

func (r *noteRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("customer_id = ?", customerID).
		Order("pinned DESC, created_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *noteRepository) GetByBillID(ctx context.Context, billID uuid.UUID) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("bill_id = ?", billID).
		Order("pinned DESC, created_at DESC").
		Find(&notes).Error
	return notes, err
}
