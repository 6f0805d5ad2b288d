package models

import "time"

// Patient is a persisted diagnosis record. Rows are created exactly once
// per successful classification and never mutated afterwards; the owning
// user is required at creation time.
type Patient struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Age           int       `gorm:"not null" json:"age"`
	Gender        string    `gorm:"size:10;not null" json:"gender"`
	TumorType     *string   `gorm:"size:80" json:"tumor_type,omitempty"`
	DiagnosisDate time.Time `gorm:"type:date;not null" json:"diagnosis_date"`
	ImagePath     *string   `gorm:"size:200" json:"image_path,omitempty"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
