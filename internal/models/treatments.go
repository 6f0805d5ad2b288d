package models

// Treatment is a static reference protocol keyed by tumor type. The table
// is seeded once at startup when empty and is read-only afterwards.
type Treatment struct {
	ID                    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TumorType             string `gorm:"size:80;not null;uniqueIndex" json:"tumor_type"`
	Description           string `gorm:"type:text;not null" json:"description"`
	RecommendedMedication string `gorm:"type:text" json:"recommended_medication"`
	Duration              string `gorm:"type:text" json:"duration"`
	SideEffects           string `gorm:"type:text" json:"side_effects"`
}

// Tumor labels form a closed enumeration shared with the classifier.
const (
	TumorTypeGlioma     = "Glioma"
	TumorTypeMeningioma = "Meningioma"
	TumorTypeNoTumor    = "No Tumor"
	TumorTypePituitary  = "Pituitary"
)

// TumorTypes lists the closed enumeration in classifier output order.
var TumorTypes = []string{TumorTypeGlioma, TumorTypeMeningioma, TumorTypeNoTumor, TumorTypePituitary}
