package model

import (
	"time"

	"github.com/google/uuid"
)

// Company status constants
var (
	// CompanyDraft is a company profile waiting for TPO activation
	CompanyDraft = "DRAFT"
	// CompanyActive is a company profile visible to students
	CompanyActive = "ACTIVE"
)

// HRContact is the point of contact a company exposes to the TPO office
type HRContact struct {
	Name  string `gorm:"type:text" json:"name"`
	Email string `gorm:"type:text" json:"email"`
	Phone string `gorm:"type:text" json:"phone"`
}

// EditableCompanyInfo is the descriptive part of a company profile.
// Recruiters may keep editing these fields even after activation.
type EditableCompanyInfo struct {
	Description string    `gorm:"type:text" json:"description"`
	Website     string    `gorm:"type:text" json:"website"`
	Location    string    `gorm:"type:text" json:"location"`
	Logo        string    `gorm:"type:text" json:"logo"`
	HRContact   HRContact `gorm:"embedded;embeddedPrefix:hr_" json:"hr_contact"`
}

// Company is a hiring organization. A recruiter owns at most one company;
// the TPO may register any number on behalf of others.
type Company struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"uniqueIndex;not null" json:"name"`
	EditableCompanyInfo
	Status   string `gorm:"type:text;default:'DRAFT'" json:"status"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"created_by"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID;references:ID" json:"-"`
}
