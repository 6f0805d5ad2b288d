package logics

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"neuroscan-server/internal/apperrors"
	"neuroscan-server/internal/classifier"
	"neuroscan-server/internal/models"
)

// DiagnosisInput carries the image payload and patient metadata of one
// pipeline submission. Age and DiagnosisDate arrive in textual form and
// are validated before any side effect.
type DiagnosisInput struct {
	Name          string
	Age           string
	Gender        string
	DiagnosisDate string
	Filename      string
	Image         []byte
	ContentType   string
}

// DiagnosisResult is returned to the caller after a successful run.
// Treatment is nil when the catalog has no protocol for the label.
type DiagnosisResult struct {
	Prediction string            `json:"prediction"`
	Confidence float64           `json:"confidence"`
	Treatment  *models.Treatment `json:"treatment"`
}

// DiagnosisService orchestrates image intake, classification, treatment
// lookup, and patient-record persistence. It also serves the patient
// store operations scoped to the owning user.
type DiagnosisService struct {
	db         *gorm.DB
	logger     *zap.Logger
	classifier classifier.Classifier
	store      ImageStore
	treatments *TreatmentService
}

func NewDiagnosisService(db *gorm.DB, logger *zap.Logger, clf classifier.Classifier, store ImageStore, treatments *TreatmentService) *DiagnosisService {
	return &DiagnosisService{
		db:         db,
		logger:     logger,
		classifier: clf,
		store:      store,
		treatments: treatments,
	}
}

// Predict runs the diagnosis pipeline for an authenticated user:
// validate metadata, persist the image, classify, look up the treatment,
// and create the patient record. Metadata is validated before the image
// write so a malformed date never leaves an orphaned file behind.
func (s *DiagnosisService) Predict(ctx context.Context, userID uint, input DiagnosisInput) (*DiagnosisResult, error) {
	// 1. Validate metadata before any storage side effect.
	age, diagnosisDate, err := validateMetadata(input)
	if err != nil {
		return nil, err
	}

	// 2. Validate and persist the image payload.
	if len(input.Image) == 0 {
		return nil, apperrors.New(apperrors.ErrValidation, "No selected file.")
	}
	imagePath, err := s.store.Save(ctx, input.Filename, input.Image, input.ContentType)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "Error saving uploaded image.", err)
	}

	// 3. Classify. The pipeline does not retry and does not distinguish
	// transient from permanent collaborator failures.
	prediction, err := s.classifier.Classify(ctx, input.Filename, input.Image)
	if err != nil {
		return nil, err
	}

	// 4. Look up the treatment; absence yields a nil payload, not a failure.
	treatment, err := s.treatments.FindByTumorType(prediction.Label)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "Error loading treatment data.", err)
	}

	// 5. Persist the patient record. No deduplication: each submission
	// creates a new row.
	label := prediction.Label
	patient := models.Patient{
		Name:          input.Name,
		Age:           age,
		Gender:        input.Gender,
		TumorType:     &label,
		DiagnosisDate: diagnosisDate,
		ImagePath:     &imagePath,
		UserID:        userID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&patient).Error
	})
	if err != nil {
		s.logger.Error("Failed to save patient record", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrStorage, "Error saving patient data.", err)
	}

	return &DiagnosisResult{
		Prediction: prediction.Label,
		Confidence: prediction.Confidence,
		Treatment:  treatment,
	}, nil
}

// ListPatients returns the diagnosis records owned by the user.
func (s *DiagnosisService) ListPatients(userID uint) ([]models.Patient, error) {
	var patients []models.Patient
	err := s.db.Where("user_id = ?", userID).Order("id").Find(&patients).Error
	return patients, err
}

// DeletePatient removes a record if it is owned by the user.
func (s *DiagnosisService) DeletePatient(patientID, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", patientID, userID).Delete(&models.Patient{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorage, "Error deleting patient record.", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Patient record not found.")
	}
	return nil
}

func validateMetadata(input DiagnosisInput) (int, time.Time, error) {
	if strings.TrimSpace(input.Name) == "" {
		return 0, time.Time{}, apperrors.New(apperrors.ErrValidation, "Patient name is required.")
	}
	age, err := strconv.Atoi(strings.TrimSpace(input.Age))
	if err != nil || age <= 0 {
		return 0, time.Time{}, apperrors.New(apperrors.ErrValidation, "Patient age must be a positive number.")
	}
	if strings.TrimSpace(input.Gender) == "" {
		return 0, time.Time{}, apperrors.New(apperrors.ErrValidation, "Patient gender is required.")
	}
	diagnosisDate, err := time.Parse("2006-01-02", input.DiagnosisDate)
	if err != nil {
		return 0, time.Time{}, apperrors.New(apperrors.ErrValidation, "Diagnosis date must be in YYYY-MM-DD format.")
	}
	return age, diagnosisDate, nil
}

// errIsNotFound reports a gorm missing-row error.
func errIsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
