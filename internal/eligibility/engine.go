// Package eligibility implements the gate deciding whether a student may
// apply to a job. It is a pure decision function over read-only snapshots;
// callers do the persistence.
package eligibility

import (
	"fmt"

	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

// Code identifies the first eligibility rule the applicant failed.
type Code string

// Violation codes, one per rule, in check order.
const (
	AlreadyPlaced    Code = "AlreadyPlaced"
	NotVerified      Code = "NotVerified"
	CgpaTooLow       Code = "CgpaTooLow"
	TooManyBacklogs  Code = "TooManyBacklogs"
	BranchNotAllowed Code = "BranchNotAllowed"
	AlreadyApplied   Code = "AlreadyApplied"
)

// Violation is a failed eligibility check. The message carries the required
// threshold and the student's actual value so the client can render it as is.
type Violation struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (v *Violation) Error() string {
	return v.Message
}

// Check runs the six eligibility rules in order and returns the first
// violation, or nil when the student may apply. The rules short-circuit, so
// the reported reason is deterministic for a given (student, job) pair.
// The student's User must be loaded; alreadyApplied is the caller's duplicate
// lookup for this pair.
func Check(student model.Student, job model.Job, alreadyApplied bool) *Violation {
	if student.PlacementStatus == model.PlacementPlaced || student.PlacementStatus == model.PlacementLocked {
		return &Violation{
			Code:    AlreadyPlaced,
			Message: "You are already placed. Policy restriction.",
		}
	}

	if !student.User.IsVerified {
		return &Violation{
			Code:    NotVerified,
			Message: "Your profile is not verified by TPO yet.",
		}
	}

	if student.CGPA < job.Eligibility.MinCGPA {
		return &Violation{
			Code:    CgpaTooLow,
			Message: fmt.Sprintf("CGPA too low. Required: %v (yours: %v)", job.Eligibility.MinCGPA, student.CGPA),
		}
	}

	if student.Backlogs > job.Eligibility.MaxBacklogs {
		return &Violation{
			Code:    TooManyBacklogs,
			Message: fmt.Sprintf("Too many backlogs. Max allowed: %d (yours: %d)", job.Eligibility.MaxBacklogs, student.Backlogs),
		}
	}

	if len(job.Eligibility.AllowedBranches) > 0 && !utilities.Contains(job.Eligibility.AllowedBranches, student.Department) {
		return &Violation{
			Code:    BranchNotAllowed,
			Message: fmt.Sprintf("Branch %s is not eligible for this job", student.Department),
		}
	}

	if alreadyApplied {
		return &Violation{
			Code:    AlreadyApplied,
			Message: "Already applied for this job",
		}
	}

	return nil
}
