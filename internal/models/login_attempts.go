package models

import "time"

// LoginAttempt is the append-only audit trail of authentication attempts.
// Exactly one row is written per login submission, successful or not.
// UserID is nil when the submitted username did not resolve to a user.
type LoginAttempt struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Success   bool      `json:"success"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}
