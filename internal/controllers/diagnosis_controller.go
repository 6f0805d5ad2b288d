package controllers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"neuroscan-server/internal/apperrors"
	"neuroscan-server/internal/logics"
	"neuroscan-server/internal/middlewares"
	"neuroscan-server/internal/models"
)

// maxScanUploadBytes caps a single scan upload at 16 MiB.
const maxScanUploadBytes = 16 << 20

type PredictionResponse struct {
	Prediction string            `json:"prediction"`
	Confidence float64           `json:"confidence"`
	Treatment  *models.Treatment `json:"treatment,omitempty"`
}

// DiagnosisController serves the scan classification pipeline.
type DiagnosisController struct {
	diagnosis *logics.DiagnosisService
}

func NewDiagnosisController(diagnosis *logics.DiagnosisService) *DiagnosisController {
	return &DiagnosisController{diagnosis: diagnosis}
}

// Predict accepts patient metadata plus a brain-scan image as a
// multipart form, runs it through the classifier and persists the
// resulting patient record.
// POST /predict
func (ctrl *DiagnosisController) Predict(c echo.Context) error {
	userID, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	input := logics.DiagnosisInput{
		Name:          c.FormValue("name"),
		Age:           c.FormValue("age"),
		Gender:        c.FormValue("gender"),
		DiagnosisDate: c.FormValue("diagnosis_date"),
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperrors.New(apperrors.ErrValidation, "No file part in the request."))
	}
	if fileHeader.Size > maxScanUploadBytes {
		return respondError(c, apperrors.New(apperrors.ErrValidation, "Uploaded file is too large."))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.ErrStorage, "Failed to read uploaded file.", err))
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.ErrStorage, "Failed to read uploaded file.", err))
	}

	input.Filename = fileHeader.Filename
	input.Image = data
	input.ContentType = fileHeader.Header.Get("Content-Type")

	result, err := ctrl.diagnosis.Predict(c.Request().Context(), userID, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, PredictionResponse{
		Prediction: result.Prediction,
		Confidence: result.Confidence,
		Treatment:  result.Treatment,
	})
}
