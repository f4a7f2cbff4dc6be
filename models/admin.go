package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a dashboard owner. Everyone except the configured super admin
// has to be approved before they can sign in.
type Admin struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Name         string     `json:"name"`
	OTPHash      string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPAttempts  int        `gorm:"not null;default:0" json:"-"`
	Approved     bool       `json:"approved"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
