package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a storefront customer. Phone and email are nullable so that a
// customer who signed up by phone does not collide on an empty email.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Phone        *string    `gorm:"uniqueIndex" json:"phone"`
	Email        *string    `gorm:"uniqueIndex" json:"email"`
	Name         string     `json:"name"`
	OTPHash      string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPAttempts  int        `gorm:"not null;default:0" json:"-"`
	Addresses    []Address  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Cart         *Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart,omitempty"`
	Orders       []Order    `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// Address is a free-text shipping address. A user's oldest address is
// treated as the default one.
type Address struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"index;not null;size:36" json:"userId"`
	Address    string    `gorm:"not null" json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
