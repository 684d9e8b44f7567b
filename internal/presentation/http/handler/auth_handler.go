package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/request"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/oauth"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	googleOAuth *oauth.GoogleOAuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, googleOAuth *oauth.GoogleOAuthService) *AuthHandler {
	return &AuthHandler{authService: authService, googleOAuth: googleOAuth}
}

func loginResponse(output *service.LoginOutput) gin.H {
	return gin.H{
		"user": gin.H{
			"id":          output.User.ID,
			"first_name":  output.User.FirstName,
			"last_name":   output.User.LastName,
			"email":       output.User.Email,
			"username":    output.User.Username,
			"photo":       output.User.Photo,
			"roles":       output.User.Roles,
			"permissions": output.User.GetPermissions(),
		},
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	}
}

// Login handles user login. The returned access token is not bound to a
// store; clients call SwitchTenant to get a store-scoped token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", loginResponse(output))
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		StoreName: req.StoreName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Registration successful", gin.H{
		"user": gin.H{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"username":   user.Username,
		},
	})
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", gin.H{
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	})
}

// SwitchTenant issues a new token pair bound to the given store
func (h *AuthHandler) SwitchTenant(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SwitchTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		response.BadRequest(c, "Invalid tenant ID")
		return
	}

	output, err := h.authService.SwitchTenant(c.Request.Context(), *userID, tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store switched successfully", loginResponse(output))
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	// JWT is stateless; the client discards its tokens
	response.OK(c, "Logged out successfully", nil)
}

// GoogleLogin redirects the browser to Google's consent page
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.googleOAuth == nil || !h.googleOAuth.IsConfigured() {
		response.BadRequest(c, "Google login is not configured")
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		response.Error(c, err)
		return
	}
	state := hex.EncodeToString(buf)

	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.GetAuthURL(state))
}

// GoogleCallback handles the OAuth redirect from Google and forwards the
// browser to the frontend with a token pair
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.googleOAuth == nil || !h.googleOAuth.IsConfigured() {
		response.BadRequest(c, "Google login is not configured")
		return
	}

	savedState, err := c.Cookie(oauthStateCookie)
	if err != nil || savedState == "" || c.Query("state") != savedState {
		c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.GetFrontendErrorURL())
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.GetFrontendErrorURL())
		return
	}

	token, err := h.googleOAuth.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.GetFrontendErrorURL())
		return
	}

	info, err := h.googleOAuth.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.GetFrontendErrorURL())
		return
	}

	output, err := h.authService.LoginWithGoogle(c.Request.Context(), info.ID, info.Email, info.GivenName, info.FamilyName, info.Picture)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.GetFrontendErrorURL())
		return
	}

	redirect := h.googleOAuth.GetFrontendSuccessURL() +
		"?access_token=" + url.QueryEscape(output.AccessToken) +
		"&refresh_token=" + url.QueryEscape(output.RefreshToken)
	c.Redirect(http.StatusTemporaryRedirect, redirect)
}

// GetProfile handles fetching current user profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{
		"user": gin.H{
			"id":          user.ID,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"email":       user.Email,
			"username":    user.Username,
			"photo":       user.Photo,
			"roles":       user.Roles,
			"permissions": user.GetPermissions(),
			"created_at":  user.CreatedAt,
			"updated_at":  user.UpdatedAt,
		},
	})
}

// UpdateProfile handles updating user profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Username  string  `json:"username"`
		Photo     *string `json:"photo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), &service.UpdateProfileInput{
		UserID:    *userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Photo:     req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile updated successfully", gin.H{
		"user": user,
	})
}

// ChangePassword handles password change
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), &service.ChangePasswordInput{
		UserID:          *userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if apperror.IsAppError(err) {
			response.Error(c, err)
		} else {
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.OK(c, "Password changed successfully", nil)
}

// ForgotPassword handles forgot password request
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req request.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Always return success to prevent email enumeration
	_ = h.authService.ForgotPassword(c.Request.Context(), &service.ForgotPasswordInput{
		Email: req.Email,
	})

	response.OK(c, "If the email exists, a reset link has been sent", nil)
}

// ResetPassword handles password reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), &service.ResetPasswordInput{
		Email:       req.Email,
		Token:       req.Token,
		NewPassword: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset successfully", nil)
}
