package model

import (
	"time"

	"github.com/google/uuid"
)

// Application status constants, see transitions.go for the allowed moves.
var (
	// StatusApplied is the initial status of every application
	StatusApplied = "Applied"
	// StatusTestScheduled means a written/online test has been scheduled
	StatusTestScheduled = "Test Scheduled"
	// StatusInterviewScheduled means an interview has been scheduled
	StatusInterviewScheduled = "Interview Scheduled"
	// StatusSelected means the company extended an offer, waiting for the student
	StatusSelected = "Selected"
	// StatusOfferAccepted is terminal, the student took the offer
	StatusOfferAccepted = "Offer Accepted"
	// StatusOfferRejected is terminal, the student declined the offer
	StatusOfferRejected = "Offer Rejected"
	// StatusRejected is terminal, the company dropped the applicant
	StatusRejected = "Rejected"
)

// Per-round outcome constants for RoundProgress
var (
	RoundPending = "Pending"
	RoundCleared = "Cleared"
	RoundFailed  = "Failed"
)

// Schedule is the appointment record attached when a test or interview
// round is scheduled.
type Schedule struct {
	DateTime     *time.Time `gorm:"type:timestamp" json:"date_time,omitempty"`
	Location     string     `gorm:"type:text" json:"location,omitempty"`
	Instructions string     `gorm:"type:text" json:"instructions,omitempty"`
}

// IsZero reports whether no schedule has been attached.
func (s Schedule) IsZero() bool {
	return s.DateTime == nil && s.Location == "" && s.Instructions == ""
}

// OfferDetails is the offer block attached when an application moves to Selected.
type OfferDetails struct {
	Salary         float64    `gorm:"type:numeric(8,2)" json:"salary,omitempty"` // LPA
	OfferLetterURL string     `gorm:"type:text" json:"offer_letter_url,omitempty"`
	ExpiryDate     *time.Time `gorm:"type:timestamp" json:"expiry_date,omitempty"`
}

// IsZero reports whether no offer has been attached.
func (o OfferDetails) IsZero() bool {
	return o.Salary == 0 && o.OfferLetterURL == "" && o.ExpiryDate == nil
}

// RoundProgress records the outcome of one selection round for one
// application. It is informational only and never gates a status transition.
type RoundProgress struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"-"`
	ApplicationID uint     `gorm:"not null;uniqueIndex:idx_application_round" json:"-"`
	RoundName     string   `gorm:"type:text;not null;uniqueIndex:idx_application_round" json:"round_name"`
	Status        string   `gorm:"type:text;default:'Pending'" json:"status"`
	Feedback      string   `gorm:"type:text" json:"feedback"`
	Score         *float64 `json:"score,omitempty"`
}

// Application tracks one student's run at one job, from Applied to a
// terminal outcome. Rows are never deleted; they are the audit trail.
// The composite unique index on (student_id, job_id) is what holds the
// one-application-per-pair invariant under concurrent applies.
type Application struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_job;<-:create" json:"student_id"`
	Student   Student   `gorm:"foreignKey:StudentID;references:UserID" json:"student"`
	JobID     uint      `gorm:"not null;index;uniqueIndex:idx_student_job;<-:create" json:"job_id"`
	Job       Job       `gorm:"foreignKey:JobID;references:ID" json:"job"`

	Status         string          `gorm:"type:text;default:'Applied'" json:"status"`
	RoundsProgress []RoundProgress `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"rounds_progress"`

	TestSchedule      Schedule     `gorm:"embedded;embeddedPrefix:test_" json:"test_schedule"`
	InterviewSchedule Schedule     `gorm:"embedded;embeddedPrefix:interview_" json:"interview_schedule"`
	Offer             OfferDetails `gorm:"embedded;embeddedPrefix:offer_" json:"offer_details"`

	AppliedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"applied_at"`
}
