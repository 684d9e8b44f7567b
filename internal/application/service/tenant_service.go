package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/pagination"
	"github.com/saralbilling/saral-api/pkg/utils"
)

// TenantService handles tenant (store) business logic
type TenantService struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository, userRepo repository.UserRepository) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
	}
}

// CreateTenantInput represents the input for creating a tenant
type CreateTenantInput struct {
	Name    string
	Slug    string
	OwnerID uuid.UUID
}

// CreateTenant creates a new store and adds the owner as its first member
func (s *TenantService) CreateTenant(ctx context.Context, input *CreateTenantInput) (*entity.Tenant, error) {
	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}

	exists, err := s.tenantRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		// append a short suffix rather than rejecting outright
		slug = fmt.Sprintf("%s-%s", slug, uuid.New().String()[:8])
	}

	tenant := &entity.Tenant{
		Name:     input.Name,
		Slug:     slug,
		OwnerID:  input.OwnerID,
		Settings: entity.DefaultTenantSettings(),
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	membership := &entity.TenantMembership{
		TenantID: tenant.ID,
		UserID:   input.OwnerID,
		Role:     "owner",
	}
	if err := s.tenantRepo.AddMember(ctx, membership); err != nil {
		return nil, err
	}

	return tenant, nil
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Store")
	}
	return tenant, nil
}

// GetTenantBySlug retrieves a tenant by its slug
func (s *TenantService) GetTenantBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Store")
	}
	return tenant, nil
}

// UpdateTenantInput represents the input for updating a tenant
type UpdateTenantInput struct {
	Name     *string
	Settings *entity.TenantSettings
}

// UpdateTenant updates tenant details and settings. Owners and admins only.
func (s *TenantService) UpdateTenant(ctx context.Context, tenantID, userID uuid.UUID, input *UpdateTenantInput) (*entity.Tenant, error) {
	tenant, err := s.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.requireRole(ctx, tenantID, userID, "owner", "admin"); err != nil {
		return nil, err
	}

	if input.Name != nil {
		tenant.Name = *input.Name
	}
	if input.Settings != nil {
		tenant.Settings = *input.Settings
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	return tenant, nil
}

// DeleteTenant soft-deletes a tenant. Only the owner may delete.
func (s *TenantService) DeleteTenant(ctx context.Context, tenantID, userID uuid.UUID) error {
	tenant, err := s.GetTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	if tenant.OwnerID != userID {
		return apperror.ErrForbidden
	}

	return s.tenantRepo.Delete(ctx, tenantID)
}

// GetUserTenants retrieves all stores the user belongs to
func (s *TenantService) GetUserTenants(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Tenant, *pagination.Pagination, error) {
	params.Validate()

	tenants, total, err := s.tenantRepo.GetUserTenants(ctx, userID, params)
	if err != nil {
		return nil, nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return tenants, pag, nil
}

// ListAllTenants retrieves every tenant. Intended for super admin use.
func (s *TenantService) ListAllTenants(ctx context.Context, params *pagination.PaginationParams) ([]entity.Tenant, *pagination.Pagination, error) {
	params.Validate()

	tenants, total, err := s.tenantRepo.ListAll(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return tenants, pag, nil
}

// AddMemberInput represents the input for adding a member
type AddMemberInput struct {
	Email string
	Role  string
}

// AddMember adds a user to a tenant by email
func (s *TenantService) AddMember(ctx context.Context, tenantID, actorID uuid.UUID, input *AddMemberInput) (*entity.TenantMembership, error) {
	if err := s.requireRole(ctx, tenantID, actorID, "owner", "admin"); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	isMember, err := s.tenantRepo.IsMember(ctx, tenantID, user.ID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, apperror.NewConflictError("User is already a member of this store")
	}

	role := input.Role
	if role == "" {
		role = "member"
	}

	membership := &entity.TenantMembership{
		TenantID: tenantID,
		UserID:   user.ID,
		Role:     role,
	}
	if err := s.tenantRepo.AddMember(ctx, membership); err != nil {
		return nil, err
	}

	return membership, nil
}

// RemoveMember removes a user from a tenant
func (s *TenantService) RemoveMember(ctx context.Context, tenantID, actorID, memberID uuid.UUID) error {
	if err := s.requireRole(ctx, tenantID, actorID, "owner", "admin"); err != nil {
		return err
	}

	tenant, err := s.GetTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.OwnerID == memberID {
		return apperror.NewBadRequestError("The store owner cannot be removed")
	}

	return s.tenantRepo.RemoveMember(ctx, tenantID, memberID)
}

// GetMembers retrieves all members of a tenant
func (s *TenantService) GetMembers(ctx context.Context, tenantID, userID uuid.UUID) ([]entity.TenantMembership, error) {
	isMember, err := s.tenantRepo.IsMember(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperror.ErrForbidden
	}

	members, err := s.tenantRepo.GetMembers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	for i := range members {
		members[i].PopulateUserDetails()
	}

	return members, nil
}

// UpdateMemberRole changes a member's role in a tenant. Owner only.
func (s *TenantService) UpdateMemberRole(ctx context.Context, tenantID, actorID, memberID uuid.UUID, role string) error {
	if err := s.requireRole(ctx, tenantID, actorID, "owner"); err != nil {
		return err
	}

	tenant, err := s.GetTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.OwnerID == memberID {
		return apperror.NewBadRequestError("The store owner's role cannot be changed")
	}

	isMember, err := s.tenantRepo.IsMember(ctx, tenantID, memberID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperror.NewNotFoundError("Member")
	}

	return s.tenantRepo.UpdateMemberRole(ctx, tenantID, memberID, role)
}

// VerifyMembership checks whether the user belongs to the tenant
func (s *TenantService) VerifyMembership(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	return s.tenantRepo.IsMember(ctx, tenantID, userID)
}

// requireRole rejects the request unless the actor holds one of the allowed roles
func (s *TenantService) requireRole(ctx context.Context, tenantID, userID uuid.UUID, roles ...string) error {
	membership, err := s.tenantRepo.GetMembership(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.ErrForbidden
	}
	for _, role := range roles {
		if membership.Role == role {
			return nil
		}
	}
	return apperror.ErrForbidden
}
