package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// UserService handles user management operations
type UserService struct {
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	permissionRepo repository.PermissionRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

// ListUsers returns a paginated list of users with their roles
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, *pagination.Pagination, error) {
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return users, pag, nil
}

// GetUser returns a user by ID with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// UpdateUserRolesInput represents the input for updating user roles
type UpdateUserRolesInput struct {
	UserID  uuid.UUID
	RoleIDs []uint
}

// UpdateUserRoles replaces the set of roles assigned to a user
func (s *UserService) UpdateUserRoles(ctx context.Context, input *UpdateUserRolesInput) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	desired := make(map[uint]bool)
	for _, roleID := range input.RoleIDs {
		desired[roleID] = true
	}
	current := make(map[uint]bool)
	for _, role := range user.Roles {
		current[role.ID] = true
	}

	for _, role := range user.Roles {
		if !desired[role.ID] {
			if err := s.userRepo.RemoveRole(ctx, input.UserID, role.ID); err != nil {
				return nil, err
			}
		}
	}

	for roleID := range desired {
		if current[roleID] {
			continue
		}
		role, err := s.roleRepo.GetByID(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			// Skip roles that don't exist
			continue
		}
		if err := s.userRepo.AssignRole(ctx, input.UserID, roleID); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetWithRoles(ctx, input.UserID)
}

// DeleteUser soft deletes a user
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	return s.userRepo.Delete(ctx, userID)
}

// ListRoles returns all available roles
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}

// ListPermissions returns all available permissions
func (s *UserService) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	return s.permissionRepo.List(ctx)
}
