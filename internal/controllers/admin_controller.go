package controllers

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"neuroscan-server/internal/logics"
	"neuroscan-server/internal/middlewares"
)

type AdminLoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type CreateAdminRequest struct {
	Username             string `json:"username" form:"username" validate:"required,min=3,max=64"`
	Password             string `json:"password" form:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required"`
}

type AdminChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

// AdminController serves the admin console: account management, the
// login audit trail and aggregate statistics.
type AdminController struct {
	admins        *logics.AdminService
	audit         *logics.LoginAuditService
	sessionMaxAge int
}

func NewAdminController(admins *logics.AdminService, audit *logics.LoginAuditService, sessionMaxAge int) *AdminController {
	return &AdminController{
		admins:        admins,
		audit:         audit,
		sessionMaxAge: sessionMaxAge,
	}
}

// Login authenticates an admin and establishes the admin session cookie.
// POST /admin/login
func (ctrl *AdminController) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username and password are required."})
	}

	admin, err := ctrl.admins.Authenticate(req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	sess, err := session.Get(middlewares.AdminSessionName, c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create session."})
	}
	sess.Options.Path = "/admin"
	sess.Options.MaxAge = ctrl.sessionMaxAge
	sess.Options.HttpOnly = true
	sess.Values["admin_id"] = admin.ID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save session."})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Admin login successful.",
		"admin_id": admin.ID,
		"username": admin.Username,
	})
}

// Logout destroys the admin session.
// GET /admin/logout
func (ctrl *AdminController) Logout(c echo.Context) error {
	sess, err := session.Get(middlewares.AdminSessionName, c)
	if err == nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out."})
}

// Dashboard returns platform totals, the most recent login attempts and
// the tumor-type distribution.
// GET /admin/dashboard
func (ctrl *AdminController) Dashboard(c echo.Context) error {
	stats, err := ctrl.admins.Dashboard()
	if err != nil {
		return respondError(c, err)
	}
	distribution, err := ctrl.admins.PatientStatistics()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total_patients": stats.TotalPatients,
		"total_users":    stats.TotalUsers,
		"recent_logins":  stats.RecentLogins,
		"statistics":     distribution,
	})
}

// ListUsers returns every clinician account.
// GET /admin/users
func (ctrl *AdminController) ListUsers(c echo.Context) error {
	users, err := ctrl.admins.ListUsers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

// LockUser blocks a clinician account from logging in.
// POST /admin/user/:id/lock
func (ctrl *AdminController) LockUser(c echo.Context) error {
	return ctrl.setLocked(c, true, "User account locked.")
}

// UnlockUser restores a clinician account's ability to log in.
// POST /admin/user/:id/unlock
func (ctrl *AdminController) UnlockUser(c echo.Context) error {
	return ctrl.setLocked(c, false, "User account unlocked.")
}

func (ctrl *AdminController) setLocked(c echo.Context, locked bool, message string) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID."})
	}
	if err := ctrl.admins.SetLocked(userID, locked); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": message})
}

// DeleteUser removes a clinician account and all of its patient records.
// POST /admin/user/:id/delete
func (ctrl *AdminController) DeleteUser(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID."})
	}
	if err := ctrl.admins.DeleteUser(userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User and associated patients deleted."})
}

// CreateAdmin provisions a new admin account.
// POST /admin/create_admin
func (ctrl *AdminController) CreateAdmin(c echo.Context) error {
	var req CreateAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username, password and confirmation are required."})
	}

	admin, err := ctrl.admins.CreateAdmin(req.Username, req.Password, req.PasswordConfirmation)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Admin created successfully.",
		"admin_id": admin.ID,
	})
}

// ChangePassword replaces the admin's secret after re-verifying the
// current one.
// POST /admin/change_password
func (ctrl *AdminController) ChangePassword(c echo.Context) error {
	adminID, err := middlewares.GetAdminIDFromContext(c)
	if err != nil {
		return err
	}

	var req AdminChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "All password fields are required."})
	}

	if err := ctrl.admins.ChangeAdminPassword(adminID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully."})
}

// ManageLogins returns the 50 most recent login attempts.
// GET /admin/manage_logins
func (ctrl *AdminController) ManageLogins(c echo.Context) error {
	attempts, err := ctrl.audit.RecentAttempts(50)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"login_attempts": attempts})
}
