package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/config"
	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/repository"
	"github.com/iliyamo/property-rental/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	FullName        string `json:"full_name" validate:"required"`
	IsPropertyOwner bool   `json:"is_property_owner"`
	// is_tenant is deliberately absent: the tenant role is granted only
	// by tenant registration, never self-declared at signup.
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type updateMeReq struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    repository.User `json:"user"`
	Access  tokenPart       `json:"access"`
	Refresh tokenPart       `json:"refresh"`
}

// issuePair mints an access/refresh pair and stores the refresh hash.
func (h *AuthHandler) issuePair(ctx context.Context, userID uint64) (tokenPart, tokenPart, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	return tokenPart{Token: access.Token, Expires: access.Exp},
		tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, nil // raw back to client
}

// Register: create user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, strings.TrimSpace(req.FullName), req.IsPropertyOwner, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, refresh, err := h.issuePair(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, authResp{User: u, Access: access, Refresh: refresh})
}

// Login: verify credentials and return a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "inactive user"})
	}

	access, refresh, err := h.issuePair(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{User: u, Access: access, Refresh: refresh})
}

// Refresh: validate by hash, revoke old, issue new (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, refresh, err := h.issuePair(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{User: u, Access: access, Refresh: refresh})
}

// Logout: revoke the refresh token supplied in the body. 204 whether or
// not the token was still active, so logout is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateMe patches the caller's own profile. Only supplied fields change.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateMeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = req.PhoneNumber
	}
	passwordChanged := false
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
		}
		u.PasswordHash = hash
		passwordChanged = true
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, &u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if passwordChanged {
		// A new password ends every existing refresh session.
		_ = h.Tokens.RevokeAllForUser(ctx, u.ID)
	}
	return c.JSON(http.StatusOK, u)
}
