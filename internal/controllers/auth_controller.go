package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"neuroscan-server/internal/auth"
	"neuroscan-server/internal/middlewares"
	"neuroscan-server/internal/models"
)

// Request structs
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type VerifyRequest struct {
	VerificationCode string `json:"verification_code" form:"verification_code" validate:"required,len=6"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

// Response structs
type UserResponse struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	IsVerified   bool    `json:"is_verified"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// AuthController serves registration, verification and the session
// lifecycle for clinician accounts.
type AuthController struct {
	accounts      *auth.AccountService
	verification  *auth.VerificationService
	sessionMaxAge int
}

func NewAuthController(accounts *auth.AccountService, verification *auth.VerificationService, sessionMaxAge int) *AuthController {
	return &AuthController{
		accounts:      accounts,
		verification:  verification,
		sessionMaxAge: sessionMaxAge,
	}
}

// Register creates a new unverified account and mails a verification code.
// POST /register
func (ctrl *AuthController) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username, email and password are required."})
	}

	user, err := ctrl.accounts.Register(auth.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Registration successful. Please check your email for the verification code.",
		"user_id": user.ID,
	})
}

// Verify confirms the 6-digit code for a pending account.
// POST /verify/:userID
func (ctrl *AuthController) Verify(c echo.Context) error {
	userID, err := parseIDParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID."})
	}

	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "A 6-digit verification code is required."})
	}

	if err := ctrl.verification.Confirm(userID, req.VerificationCode); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Email verified successfully."})
}

// Resend issues a fresh verification code and mails it, superseding any
// previous code.
// POST /sendemail/:userID
func (ctrl *AuthController) Resend(c echo.Context) error {
	userID, err := parseIDParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID."})
	}

	if err := ctrl.verification.IssueAndSend(userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Verification code sent."})
}

// Login authenticates a clinician and establishes the session cookie.
// POST /login
func (ctrl *AuthController) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username and password are required."})
	}

	user, err := ctrl.accounts.Login(auth.LoginParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	sess, err := session.Get(middlewares.UserSessionName, c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create session."})
	}
	sess.Options.Path = "/"
	sess.Options.MaxAge = ctrl.sessionMaxAge
	sess.Options.HttpOnly = true
	sess.Values["user_id"] = user.ID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save session."})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful.",
		"user":    toUserResponse(user),
	})
}

// Logout destroys the clinician session.
// GET /logout
func (ctrl *AuthController) Logout(c echo.Context) error {
	sess, err := session.Get(middlewares.UserSessionName, c)
	if err == nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out."})
}

// Me returns the authenticated clinician's account.
// GET /me
func (ctrl *AuthController) Me(c echo.Context) error {
	userID, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	user, err := ctrl.accounts.FindByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword replaces the clinician's secret after re-verifying the
// current one.
// POST /change_password
func (ctrl *AuthController) ChangePassword(c echo.Context) error {
	userID, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "All password fields are required."})
	}

	if err := ctrl.accounts.ChangePassword(userID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully."})
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		IsVerified:   user.IsVerified,
		ProfileImage: user.ProfileImage,
	}
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID parameter.")
	}
	return uint(id), nil
}
