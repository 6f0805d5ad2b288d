package controllers

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"neuroscan-server/internal/apperrors"
	"neuroscan-server/internal/auth"
	"neuroscan-server/internal/logics"
	"neuroscan-server/internal/middlewares"
)

// maxProfileImageBytes caps a profile picture at 4 MiB.
const maxProfileImageBytes = 4 << 20

// allowedProfileExtensions mirrors the upload form restriction.
var allowedProfileExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ProfileController serves profile picture uploads.
type ProfileController struct {
	accounts *auth.AccountService
	store    logics.ImageStore
}

func NewProfileController(accounts *auth.AccountService, store logics.ImageStore) *ProfileController {
	return &ProfileController{accounts: accounts, store: store}
}

// Upload replaces the clinician's profile picture.
// POST /profile-image
func (ctrl *ProfileController) Upload(c echo.Context) error {
	userID, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("profile_image")
	if err != nil {
		return respondError(c, apperrors.New(apperrors.ErrValidation, "No profile image in the request."))
	}
	if fileHeader.Size > maxProfileImageBytes {
		return respondError(c, apperrors.New(apperrors.ErrValidation, "Profile image is too large."))
	}
	ext := strings.ToLower(path.Ext(fileHeader.Filename))
	if !allowedProfileExtensions[ext] {
		return respondError(c, apperrors.New(apperrors.ErrValidation, "Images only!"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.ErrStorage, "Failed to read profile image.", err))
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.ErrStorage, "Failed to read profile image.", err))
	}

	stored, err := ctrl.store.Save(c.Request().Context(), fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, err)
	}
	if err := ctrl.accounts.UpdateProfileImage(userID, stored); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":       "Profile picture updated.",
		"profile_image": stored,
	})
}
