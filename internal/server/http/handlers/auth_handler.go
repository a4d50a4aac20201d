package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/server/http/dto"
	"github.com/altmarket/storefront/internal/server/http/middleware"
)

// AuthHandler processes registration, login and profile management.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	respondData(c, http.StatusCreated, dto.AuthResponse{Token: token, User: toUserResponse(user)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	respondData(c, http.StatusOK, dto.AuthResponse{Token: token, User: toUserResponse(user)})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.facade.Profile(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PATCH /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.facade.UpdateProfile(c.Request.Context(), CurrentUserID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toUserResponse(user))
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := h.facade.ChangePassword(c.Request.Context(), CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "password updated")
}

// DeleteAccount handles DELETE /api/auth/profile. Accounts with order or
// payment history are refused.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.facade.DeleteAccount(c.Request.Context(), CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "account deleted")
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
