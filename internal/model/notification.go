package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification type constants
var (
	NotificationApplication = "application"
	NotificationPlacement   = "placement"
	NotificationGeneral     = "general"
)

// Notification is an in-app message for one user. A row is recorded for
// the student on every application status transition.
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Title   string `gorm:"type:text" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Type    string `gorm:"type:text;default:'general'" json:"type"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`
}
