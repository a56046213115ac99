package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/config"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/middleware"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/queue"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
	queue_publisher "github.com/sudha-chandrann/CozyHuntBackend/internal/service"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/utils"
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
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ProfileImage string `json:"profile_image"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type emailReq struct {
	Email string `json:"email"`
}
type verifyEmailReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// userProfile is the public projection of a user returned by auth and
// profile endpoints. The password hash and email code never appear here.
type userProfile struct {
	ID                 uint64    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	ProfileImage       string    `json:"profile_image"`
	EmailVerified      bool      `json:"email_verified"`
	VerificationStatus string    `json:"verification_status"`
	Verified           bool      `json:"verified"`
	CreatedAt          time.Time `json:"created_at"`
}

type authResp struct {
	User    userProfile `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// sendVerificationCode generates a fresh code, stores it on the user row
// and hands the event to the mail queue. Queue failures are logged by
// the publisher and ignored here: the user can always request a resend.
func (h *AuthHandler) sendVerificationCode(ctx context.Context, userID uint64, name, email string) error {
	code, exp, err := utils.NewEmailCode()
	if err != nil {
		return err
	}
	if err := h.Users.SetEmailCode(ctx, userID, code, exp); err != nil {
		return err
	}
	_ = queue_publisher.PublishEmailVerification(ctx, queue.EmailVerificationEvent{
		UserID:      userID,
		Name:        name,
		Email:       email,
		Code:        code,
		ExpiresAt:   exp.Format(time.RFC3339),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Register creates an account and emails a verification code. An email
// already taken by a verified account is a conflict; a stale account
// that never confirmed its email is replaced so the address is not
// locked forever.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "name, email and password are required")
	}
	if len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, "password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if existing, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		if existing.EmailVerified {
			return fail(c, http.StatusConflict, "email already registered")
		}
		// Unconfirmed leftover from an earlier attempt: replace it.
		if err := h.Users.Delete(ctx, existing.ID); err != nil {
			return fail(c, http.StatusInternalServerError, "could not create account")
		}
	} else if err != sql.ErrNoRows {
		return fail(c, http.StatusInternalServerError, "could not create account")
	}

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.ProfileImage, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "email already registered")
		}
		return fail(c, http.StatusInternalServerError, "could not create account")
	}

	if err := h.sendVerificationCode(ctx, uid, req.Name, req.Email); err != nil {
		return fail(c, http.StatusInternalServerError, "could not send verification code")
	}

	return respond(c, http.StatusCreated, "account created, verification code sent to your email", echo.Map{
		"user_id": uid,
		"email":   req.Email,
	})
}

// SendCode re-issues a verification code for an unconfirmed account.
func (h *AuthHandler) SendCode(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return fail(c, http.StatusBadRequest, "email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "no account found for this email")
		}
		return fail(c, http.StatusInternalServerError, "could not send verification code")
	}
	if u.EmailVerified {
		return fail(c, http.StatusBadRequest, "email is already verified")
	}
	if err := h.sendVerificationCode(ctx, u.ID, u.Name, u.Email); err != nil {
		return fail(c, http.StatusInternalServerError, "could not send verification code")
	}
	return respond(c, http.StatusOK, "verification code sent to your email", nil)
}

// VerifyEmail checks the emailed code and confirms the account.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Code = strings.TrimSpace(req.Code)
	if req.Email == "" || req.Code == "" {
		return fail(c, http.StatusBadRequest, "email and code are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "no account found for this email")
		}
		return fail(c, http.StatusInternalServerError, "verification failed")
	}
	if u.EmailVerified {
		return fail(c, http.StatusBadRequest, "email is already verified")
	}
	if u.EmailCode == "" || u.EmailCode != req.Code ||
		u.EmailCodeExpires == nil || time.Now().UTC().After(*u.EmailCodeExpires) {
		return fail(c, http.StatusBadRequest, "invalid or expired verification code")
	}
	if err := h.Users.MarkEmailVerified(ctx, u.ID); err != nil {
		return fail(c, http.StatusInternalServerError, "verification failed")
	}
	return respond(c, http.StatusOK, "email verified successfully", nil)
}

// issueSession mints an access/refresh pair, persists the refresh hash
// and sets the session cookie on the response.
func (h *AuthHandler) issueSession(ctx context.Context, c echo.Context, userID uint64, role string) (tokenPart, tokenPart, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, role, h.Cfg.AccessTTLMin)
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
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    access.Token,
		Path:     "/",
		Expires:  access.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.Env == "prod",
	})
	return tokenPart{Token: access.Token, Expires: access.Exp},
		tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, nil
}

// Login verifies credentials and opens a session. Accounts that never
// confirmed their email are refused until they do.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, http.StatusInternalServerError, "login failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !u.EmailVerified {
		return fail(c, http.StatusForbidden, "email not verified, please verify your email first")
	}

	access, refresh, err := h.issueSession(ctx, c, u.ID, u.Role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "login failed")
	}
	return respond(c, http.StatusOK, "logged in successfully", authResp{
		User: userProfile{
			ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role,
			ProfileImage: u.ProfileImage, EmailVerified: u.EmailVerified,
			VerificationStatus: u.VerificationStatus, Verified: u.Verified,
			CreatedAt: u.CreatedAt,
		},
		Access:  access,
		Refresh: refresh,
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return fail(c, http.StatusBadRequest, "refresh_token is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	uid, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid or expired refresh token")
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid or expired refresh token")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return fail(c, http.StatusInternalServerError, "refresh failed")
	}

	access, refresh, err := h.issueSession(ctx, c, u.ID, u.Role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "refresh failed")
	}
	return respond(c, http.StatusOK, "session refreshed", echo.Map{
		"access":  access,
		"refresh": refresh,
	})
}

// Logout revokes the supplied refresh token and clears the session
// cookie. Safe to call with an already dead token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.RefreshToken != "" {
		_ = h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken))
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return respond(c, http.StatusOK, "logged out", nil)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, currentUserID(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "user not found")
		}
		return fail(c, http.StatusInternalServerError, "could not load profile")
	}
	return respond(c, http.StatusOK, "profile loaded", userProfile{
		ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role,
		ProfileImage: u.ProfileImage, EmailVerified: u.EmailVerified,
		VerificationStatus: u.VerificationStatus, Verified: u.Verified,
		CreatedAt: u.CreatedAt,
	})
}
