// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants for every account in the portal
var (
	// RoleStudent is a student looking for placement
	RoleStudent = "student"
	// RoleRecruiter is a company recruiter posting jobs
	RoleRecruiter = "recruiter"
	// RoleTPO is the training and placement officer
	RoleTPO = "tpo"
)

// User is the identity record every profile hangs off of.
// IsVerified is flipped by the TPO and gates job applications for students.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name       string  `gorm:"type:text" json:"name"`
	Email      *string `gorm:"uniqueIndex" json:"email"`
	Username   string  `gorm:"uniqueIndex;not null" json:"username"`
	Password   string  `gorm:"type:text" json:"-"`
	Role       string  `gorm:"type:text;not null" json:"role"`
	IsVerified bool    `gorm:"default:false" json:"is_verified"`
}
