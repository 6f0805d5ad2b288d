package logics

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"neuroscan-server/internal/models"
)

// TreatmentService serves the static treatment catalog keyed by tumor
// type. The catalog is seeded once at startup if empty and read-mostly
// afterwards.
type TreatmentService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTreatmentService(db *gorm.DB, logger *zap.Logger) *TreatmentService {
	return &TreatmentService{db: db, logger: logger}
}

// FindByTumorType returns the protocol for a label, or nil when the
// catalog has no entry. Absence is not an error.
func (s *TreatmentService) FindByTumorType(tumorType string) (*models.Treatment, error) {
	var treatment models.Treatment
	err := s.db.Where("tumor_type = ?", tumorType).First(&treatment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &treatment, nil
}

// Seed populates the catalog when the table is empty. Safe to call on
// every startup.
func (s *TreatmentService) Seed() error {
	var count int64
	if err := s.db.Model(&models.Treatment{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Treatment table already contains data, skipping population")
		return nil
	}

	if err := s.db.Create(defaultTreatments()).Error; err != nil {
		s.logger.Error("Failed to populate treatment data", zap.Error(err))
		return err
	}
	s.logger.Info("Treatment data successfully populated")
	return nil
}

func defaultTreatments() []models.Treatment {
	return []models.Treatment{
		{
			TumorType: models.TumorTypeGlioma,
			Description: "A malignant type of brain tumor that begins in glial cells. Common subtypes include astrocytomas, oligodendrogliomas, and ependymomas. " +
				"Treatment approach varies based on grade (I-IV), location, and genetic markers like IDH mutation and 1p/19q codeletion status. " +
				"Primary treatment often includes maximal safe surgical resection followed by concurrent chemoradiation.",
			RecommendedMedication: "First-line: Temozolomide (150-200mg/m2 for 5 days every 28 days)\n" +
				"Second-line: Bevacizumab (10mg/kg every 2 weeks)\n" +
				"Supportive medications: Dexamethasone for edema, Levetiracetam for seizure prophylaxis\n" +
				"Alternative options: Lomustine, Carmustine wafers",
			Duration: "Initial treatment: 6 weeks of concurrent chemoradiation\n" +
				"Adjuvant chemotherapy: 6-12 monthly cycles\n" +
				"Follow-up: Every 3-4 months for 2-3 years, then every 6 months",
			SideEffects: "Common: Fatigue, nausea, vomiting, decreased appetite, bone marrow suppression\n" +
				"Neurological: Seizures, headaches, cognitive changes\n" +
				"Radiation-related: Hair loss, skin irritation, brain swelling\n" +
				"Long-term: Memory issues, endocrine dysfunction\n" +
				"Bevacizumab-specific: Hypertension, wound healing problems, blood clots",
		},
		{
			TumorType: models.TumorTypeMeningioma,
			Description: "Typically benign tumors arising from the meninges. Classified by WHO grades I-III, with Grade I being most common (80%). " +
				"Location variants include parasagittal, convexity, sphenoid wing, and posterior fossa meningiomas. " +
				"Treatment strategy depends on size, location, growth rate, and symptoms. " +
				"Some cases may be managed with observation alone (watch and wait approach).",
			RecommendedMedication: "Primary treatment is usually surgical\n" +
				"Anticonvulsants: Levetiracetam (500-1000mg twice daily) or Phenytoin if seizures present\n" +
				"Steroids: Dexamethasone (4-16mg/day) for peritumoral edema\n" +
				"Hormone therapy: For progesterone receptor-positive cases in select situations",
			Duration: "Surgery recovery: 4-8 weeks\n" +
				"Radiation therapy (if needed): 5-6 weeks\n" +
				"Follow-up: Every 3-6 months initially, then annually\n" +
				"Total monitoring duration: 5-10 years depending on grade",
			SideEffects: "Surgical: Infection risk, bleeding, CSF leak, neurological deficits\n" +
				"Radiation-related: Fatigue, local hair loss, skin changes, cognitive effects\n" +
				"Location-specific: Visual problems, hearing loss, facial numbness\n" +
				"Long-term: Seizures, headaches, cognitive changes\n" +
				"Medication-related: Liver enzyme elevation, bone density changes",
		},
		{
			TumorType: models.TumorTypeNoTumor,
			Description: "Absence of neoplastic growth in brain tissue confirmed through imaging studies (MRI/CT). " +
				"May still require monitoring if patient has risk factors or concerning symptoms. " +
				"Focus on preventive care and addressing any underlying neurological symptoms. " +
				"Important to establish reason for initial imaging and ensure appropriate follow-up.",
			RecommendedMedication: "Symptomatic treatment as needed:\n" +
				"Headache management: NSAIDs or specific migraine medications\n" +
				"Preventive medications based on risk factors\n" +
				"Regular health maintenance as per age-appropriate guidelines",
			Duration: "Initial follow-up: 6 months\n" +
				"Long-term monitoring: Annual clinical check-ups\n" +
				"Repeat imaging only if new symptoms develop\n" +
				"Duration of monitoring based on initial presentation cause",
			SideEffects: "No treatment-specific side effects\n" +
				"Monitor for any new neurological symptoms\n" +
				"Regular assessment of risk factors\n" +
				"Psychological support may be needed for anxiety management",
		},
		{
			TumorType: models.TumorTypePituitary,
			Description: "Tumors arising from the pituitary gland, classified as functional (hormone-secreting) or non-functional. " +
				"Common variants include prolactinomas, growth hormone-secreting, ACTH-secreting, and non-functioning adenomas. " +
				"Treatment approach depends on tumor size (micro vs. macro), hormone status, and visual compromise. " +
				"May affect multiple endocrine systems requiring comprehensive hormonal evaluation.",
			RecommendedMedication: "Prolactinomas: Cabergoline (0.25-2mg twice weekly) or Bromocriptine (2.5-15mg daily)\n" +
				"Acromegaly: Octreotide (100-500mcg 3x daily), Lanreotide, Pegvisomant\n" +
				"Cushing's Disease: Ketoconazole, Metyrapone, Pasireotide\n" +
				"Hormone replacement: Levothyroxine, Hydrocortisone, Sex hormones as needed",
			Duration: "Medical therapy: Ongoing, often lifelong\n" +
				"Surgical recovery: 4-6 weeks\n" +
				"Radiation therapy (if needed): 4-6 weeks\n" +
				"Follow-up: Monthly initially, then every 3-6 months\n" +
				"Hormonal monitoring: Lifelong",
			SideEffects: "Medication-specific: Nausea, dizziness, fatigue, mood changes\n" +
				"Surgical: Diabetes insipidus, CSF leak, hormone deficiencies\n" +
				"Endocrine: Weight changes, sexual dysfunction, mood disorders\n" +
				"Visual: Vision changes, double vision\n" +
				"Long-term: Need for hormone replacement, metabolic changes",
		},
	}
}
