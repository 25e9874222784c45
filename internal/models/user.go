package models

import "time"

// User owns contexts and everything in them.
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	IsActive            bool       `gorm:"default:true" json:"isActive"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
	RefreshTokenHash    string     `json:"-"`
	Contexts            []Context  `gorm:"foreignKey:UserID" json:"contexts,omitempty"`
}
