package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job lifecycle status constants
var (
	// JobDraft is a posting the recruiter is still editing
	JobDraft = "DRAFT"
	// JobPendingApproval is waiting for the TPO to publish
	JobPendingApproval = "PENDING_APPROVAL"
	// JobPublished is visible to students and open for applications
	JobPublished = "PUBLISHED"
	// JobClosed no longer accepts applications
	JobClosed = "CLOSED"
)

// Job type constants
var (
	JobTypeFullTime   = "Full-time"
	JobTypeInternship = "Internship"
)

// Eligibility is the criteria block a student is gated on before applying.
// An empty AllowedBranches means every department is eligible.
type Eligibility struct {
	MinCGPA         float64        `gorm:"type:numeric(4,2);default:0" json:"min_cgpa"`
	MaxBacklogs     int            `gorm:"default:99" json:"max_backlogs"`
	AllowedBranches pq.StringArray `gorm:"type:text[]" json:"allowed_branches"`
	PassingYear     int            `json:"passing_year"`
}

// SelectionRound is one named stage of a job's selection process,
// ordered by Seq. e.g. 'Test', 'Technical', 'HR'.
type SelectionRound struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	JobID       uint   `gorm:"not null;index" json:"-"`
	Seq         int    `gorm:"not null" json:"seq"`
	Name        string `gorm:"type:text;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// EditableJobInfo is the part of a posting a recruiter can edit while drafting
type EditableJobInfo struct {
	Role        string      `gorm:"type:text" json:"role"`
	Description string      `gorm:"type:text" json:"description"`
	Package     float64     `gorm:"type:numeric(6,2)" json:"package"` // LPA
	JobType     string      `gorm:"type:text;default:'Full-time'" json:"job_type"`
	Location    string      `gorm:"type:text" json:"location"`
	Bond        string      `gorm:"type:text" json:"bond"`
	Eligibility Eligibility `gorm:"embedded;embeddedPrefix:elig_" json:"eligibility"`
	Deadline    *time.Time  `gorm:"type:timestamp" json:"deadline,omitempty"`
}

// Job is gorm model for a job posting. Students only ever see postings
// where Status is JobPublished and IsActive is true.
type Job struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RecruiterID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"recruiter_id"`
	Recruiter   User      `gorm:"foreignKey:RecruiterID;references:ID" json:"-"`
	CompanyID   uint      `gorm:"not null;index;<-:create" json:"company_id"`
	Company     Company   `gorm:"foreignKey:CompanyID;references:ID" json:"company"`

	EditableJobInfo
	Rounds []SelectionRound `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"rounds"`

	Status   string    `gorm:"type:text;default:'DRAFT'" json:"status"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
	PostedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"posted_at"`

	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// OpenForApplications reports whether students may apply to the posting.
func (j *Job) OpenForApplications(now time.Time) bool {
	if j.Status != JobPublished || !j.IsActive {
		return false
	}
	if j.Deadline != nil && j.Deadline.Before(now) {
		return false
	}
	return true
}
