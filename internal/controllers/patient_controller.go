package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neuroscan-server/internal/logics"
	"neuroscan-server/internal/middlewares"
)

// PatientController serves the clinician's own patient records.
type PatientController struct {
	diagnosis *logics.DiagnosisService
}

func NewPatientController(diagnosis *logics.DiagnosisService) *PatientController {
	return &PatientController{diagnosis: diagnosis}
}

// List returns the patients created by the requesting clinician.
// GET /patients
func (ctrl *PatientController) List(c echo.Context) error {
	userID, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	patients, err := ctrl.diagnosis.ListPatients(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patients": patients})
}

// Delete removes one of the requesting clinician's patient records.
// Records owned by other clinicians are indistinguishable from missing
// ones.
// DELETE /patients/:id
func (ctrl *PatientController) Delete(c echo.Context) error {
	userID, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	patientID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid patient ID."})
	}
	if err := ctrl.diagnosis.DeletePatient(patientID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Patient record deleted."})
}
