package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/email"
	"github.com/saralbilling/saral-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	roleRepo          repository.RoleRepository
	tenantRepo        repository.TenantRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	jwtManager        *utils.JWTManager
	emailService      *email.EmailService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tenantRepo repository.TenantRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	jwtManager *utils.JWTManager,
	emailService *email.EmailService,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		roleRepo:          roleRepo,
		tenantRepo:        tenantRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		emailService:      emailService,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens. The access token is not
// bound to a store yet; SwitchTenant issues a store-scoped token.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err = s.userRepo.GetWithRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user, nil)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	StoreName string
}

// Register creates a new user account. When a store name is provided a
// tenant is created with the user as its owner.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	existingUser, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	// Username defaults to the part of the email before @
	username := input.Email
	if idx := strings.Index(input.Email, "@"); idx > 0 {
		username = input.Email[:idx]
	}

	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  username,
		Email:     input.Email,
		Password:  hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// New signups own their store
	ownerRole, err := s.roleRepo.GetByName(ctx, "owner")
	if err == nil && ownerRole != nil {
		_ = s.userRepo.AssignRole(ctx, user.ID, ownerRole.ID)
	}

	if input.StoreName != "" {
		tenant := &entity.Tenant{
			Name:     input.StoreName,
			Slug:     utils.Slugify(input.StoreName),
			OwnerID:  user.ID,
			Settings: entity.DefaultTenantSettings(),
		}
		if taken, err := s.tenantRepo.SlugExists(ctx, tenant.Slug); err == nil && taken {
			tenant.Slug = tenant.Slug + "-" + uuid.New().String()[:8]
		}
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			return nil, err
		}
		membership := &entity.TenantMembership{
			TenantID: tenant.ID,
			UserID:   user.ID,
			Role:     "owner",
		}
		if err := s.tenantRepo.AddMember(ctx, membership); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// LoginWithGoogle finds or creates a user from a Google profile and
// issues tokens. Google accounts never carry a local password.
func (s *AuthService) LoginWithGoogle(ctx context.Context, googleID, email, firstName, lastName, picture string) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		username := email
		if idx := strings.Index(email, "@"); idx > 0 {
			username = email[:idx]
		}
		user = &entity.User{
			FirstName:  firstName,
			LastName:   lastName,
			Username:   username,
			Email:      email,
			Provider:   "google",
			ProviderID: &googleID,
		}
		if picture != "" {
			user.Photo = &picture
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		ownerRole, err := s.roleRepo.GetByName(ctx, "owner")
		if err == nil && ownerRole != nil {
			_ = s.userRepo.AssignRole(ctx, user.ID, ownerRole.ID)
		}
	}

	user, err = s.userRepo.GetWithRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user, nil)
}

// SwitchTenant issues an access token scoped to the given store. The user
// must be a member of the store.
func (s *AuthService) SwitchTenant(ctx context.Context, userID, tenantID uuid.UUID) (*LoginOutput, error) {
	isMember, err := s.tenantRepo.IsMember(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperror.ErrForbidden
	}

	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	return s.issueTokens(user, &tenantID)
}

// RefreshToken generates new tokens from a refresh token. The new access
// token carries no store binding; clients re-select the store after refresh.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	return s.issueTokens(user, nil)
}

func (s *AuthService) issueTokens(user *entity.User, tenantID *uuid.UUID) (*LoginOutput, error) {
	roles := make([]string, 0)
	for _, role := range user.Roles {
		roles = append(roles, role.Name)
	}
	permissions := user.GetPermissions()

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, tenantID, user.Email, roles, permissions)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Username  string
	Photo     *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	// Check if username is taken by another user
	if input.Username != "" && input.Username != user.Username {
		existingUser, err := s.userRepo.GetByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if existingUser != nil && existingUser.ID != user.ID {
			return nil, apperror.NewConflictError("Username already taken")
		}
		user.Username = input.Username
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ForgotPasswordInput represents the forgot password input
type ForgotPasswordInput struct {
	Email string
}

// ForgotPassword initiates the password reset process
func (s *AuthService) ForgotPassword(ctx context.Context, input *ForgotPasswordInput) error {
	// Never reveal whether the email exists
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil
	}
	if user == nil {
		return nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return err
	}
	token := hex.EncodeToString(tokenBytes)

	resetToken := &entity.PasswordResetToken{
		Email:     input.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		Used:      false,
	}

	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	// Opportunistic cleanup of expired tokens
	_ = s.passwordResetRepo.DeleteExpired(ctx)

	return s.emailService.SendPasswordResetEmail(input.Email, token)
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Email       string
	Token       string
	NewPassword string
}

// ResetPassword resets the user's password using a valid token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	resetToken, err := s.passwordResetRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return err
	}
	if resetToken == nil || resetToken.Email != input.Email || !resetToken.IsValid() {
		return apperror.NewBadRequestError("Invalid or expired reset token")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewBadRequestError("Invalid or expired reset token")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	// Password already changed; a failed mark is not fatal
	_ = s.passwordResetRepo.MarkAsUsed(ctx, input.Token)

	return nil
}
