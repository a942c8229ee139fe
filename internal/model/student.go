package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Placement status of a student
var (
	// PlacementUnplaced means the student is still in the placement pool
	PlacementUnplaced = "Unplaced"
	// PlacementPlaced means the student accepted an offer and may not apply further
	PlacementPlaced = "Placed"
	// PlacementLocked is an administrative lock set by the TPO
	PlacementLocked = "Locked"
)

// Departments is the fixed set of branch codes a student can belong to
var Departments = []string{"CS", "IT", "MECH", "ECE", "CIVIL"}

// EditableStudentInfo is the part of the profile a student may edit themselves
type EditableStudentInfo struct {
	Department  string         `gorm:"type:text" json:"department"`
	CGPA        float64        `gorm:"type:numeric(4,2);default:0" json:"cgpa"`
	Backlogs    int            `gorm:"default:0" json:"backlogs"`
	Skills      pq.StringArray `gorm:"type:text[]" json:"skills"`
	ResumeURL   string         `gorm:"type:text" json:"resume_url"`
	PassingYear int            `json:"passing_year"`
}

// Student is the academic profile of a user with RoleStudent.
// PlacedAtID is set iff PlacementStatus is PlacementPlaced.
type Student struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`
	EditableStudentInfo
	PlacementStatus string `gorm:"type:text;default:'Unplaced'" json:"placement_status"`
	PlacedAtID      *uint  `gorm:"index" json:"placed_at_id,omitempty"`
	PlacedAt        *Job   `gorm:"foreignKey:PlacedAtID;references:ID" json:"placed_at,omitempty"`
}
