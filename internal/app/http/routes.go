package httpEngine

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neuroscan-server/internal/middlewares"
)

// RegisterRoutes sets up all the server routes.
func RegisterRoutes(e *echo.Echo, ctrls Controllers) {
	// Basic health check
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, from NeuroScan Server!")
	})

	limiter := loginLimiter()

	// Registration and email verification
	e.POST("/register", ctrls.Auth.Register, limiter)
	e.POST("/verify/:userID", ctrls.Auth.Verify)
	e.POST("/sendemail/:userID", ctrls.Auth.Resend, limiter)

	// Session lifecycle
	e.POST("/login", ctrls.Auth.Login, limiter)
	e.GET("/logout", ctrls.Auth.Logout, middlewares.SessionMiddleware)
	e.GET("/me", ctrls.Auth.Me, middlewares.SessionMiddleware)
	e.POST("/change_password", ctrls.Auth.ChangePassword, middlewares.SessionMiddleware)
	e.POST("/profile-image", ctrls.Profile.Upload, middlewares.SessionMiddleware)

	// Diagnosis pipeline and patient records
	e.POST("/predict", ctrls.Diagnosis.Predict, middlewares.SessionMiddleware)
	e.GET("/patients", ctrls.Patients.List, middlewares.SessionMiddleware)
	e.DELETE("/patients/:id", ctrls.Patients.Delete, middlewares.SessionMiddleware)

	// Admin console
	adminGroup := e.Group("/admin")
	{
		adminGroup.POST("/login", ctrls.Admin.Login, limiter)
		adminGroup.POST("/create_admin", ctrls.Admin.CreateAdmin, limiter)

		adminGroup.GET("/logout", ctrls.Admin.Logout, middlewares.AdminMiddleware)
		adminGroup.GET("/dashboard", ctrls.Admin.Dashboard, middlewares.AdminMiddleware)
		adminGroup.GET("/users", ctrls.Admin.ListUsers, middlewares.AdminMiddleware)
		adminGroup.POST("/user/:id/lock", ctrls.Admin.LockUser, middlewares.AdminMiddleware)
		adminGroup.POST("/user/:id/unlock", ctrls.Admin.UnlockUser, middlewares.AdminMiddleware)
		adminGroup.POST("/user/:id/delete", ctrls.Admin.DeleteUser, middlewares.AdminMiddleware)
		adminGroup.POST("/change_password", ctrls.Admin.ChangePassword, middlewares.AdminMiddleware)
		adminGroup.GET("/manage_logins", ctrls.Admin.ManageLogins, middlewares.AdminMiddleware)
	}
}
