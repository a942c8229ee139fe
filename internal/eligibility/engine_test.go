package eligibility

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
)

func verifiedStudent() model.Student {
	return model.Student{
		User: model.User{IsVerified: true},
		EditableStudentInfo: model.EditableStudentInfo{
			Department: "CS",
			CGPA:       7.0,
			Backlogs:   1,
		},
		PlacementStatus: model.PlacementUnplaced,
	}
}

func openJob() model.Job {
	return model.Job{
		EditableJobInfo: model.EditableJobInfo{
			Eligibility: model.Eligibility{
				MinCGPA:     6.5,
				MaxBacklogs: 2,
			},
		},
	}
}

func TestCheck_AllRulesPass(t *testing.T) {
	v := Check(verifiedStudent(), openJob(), false)
	assert.Nil(t, v)
}

func TestCheck_PlacedStudentBlocked(t *testing.T) {
	s := verifiedStudent()
	s.PlacementStatus = model.PlacementPlaced

	v := Check(s, openJob(), false)
	assert.NotNil(t, v)
	assert.Equal(t, AlreadyPlaced, v.Code)
}

func TestCheck_LockedStudentBlocked(t *testing.T) {
	s := verifiedStudent()
	s.PlacementStatus = model.PlacementLocked

	v := Check(s, openJob(), false)
	assert.NotNil(t, v)
	assert.Equal(t, AlreadyPlaced, v.Code)
}

func TestCheck_UnverifiedStudentBlocked(t *testing.T) {
	s := verifiedStudent()
	s.User.IsVerified = false

	v := Check(s, openJob(), false)
	assert.NotNil(t, v)
	assert.Equal(t, NotVerified, v.Code)
}

func TestCheck_CgpaTooLowMessageCarriesThreshold(t *testing.T) {
	j := openJob()
	j.Eligibility.MinCGPA = 7.5

	v := Check(verifiedStudent(), j, false)
	assert.NotNil(t, v)
	assert.Equal(t, CgpaTooLow, v.Code)
	assert.Contains(t, v.Message, "7.5")
	assert.Contains(t, v.Message, "7")
}

func TestCheck_TooManyBacklogs(t *testing.T) {
	s := verifiedStudent()
	s.Backlogs = 3

	v := Check(s, openJob(), false)
	assert.NotNil(t, v)
	assert.Equal(t, TooManyBacklogs, v.Code)
	assert.Contains(t, v.Message, "2")
}

func TestCheck_BranchRestriction(t *testing.T) {
	j := openJob()
	j.Eligibility.AllowedBranches = pq.StringArray{"ECE", "MECH"}

	v := Check(verifiedStudent(), j, false)
	assert.NotNil(t, v)
	assert.Equal(t, BranchNotAllowed, v.Code)
	assert.Contains(t, v.Message, "CS")
}

func TestCheck_EmptyBranchListAllowsAll(t *testing.T) {
	j := openJob()
	j.Eligibility.AllowedBranches = pq.StringArray{}

	assert.Nil(t, Check(verifiedStudent(), j, false))
}

func TestCheck_Duplicate(t *testing.T) {
	v := Check(verifiedStudent(), openJob(), true)
	assert.NotNil(t, v)
	assert.Equal(t, AlreadyApplied, v.Code)
}

// Rule order is part of the contract: the reported reason must be the first
// violated rule, so a placed, unverified student hears about the placement
// lock, not verification.
func TestCheck_ShortCircuitOrder(t *testing.T) {
	s := verifiedStudent()
	s.PlacementStatus = model.PlacementPlaced
	s.User.IsVerified = false
	s.CGPA = 0
	s.Backlogs = 100

	j := openJob()
	j.Eligibility.MinCGPA = 9
	j.Eligibility.MaxBacklogs = 0
	j.Eligibility.AllowedBranches = pq.StringArray{"ECE"}

	v := Check(s, j, true)
	assert.NotNil(t, v)
	assert.Equal(t, AlreadyPlaced, v.Code)

	// peel rules off one by one
	s.PlacementStatus = model.PlacementUnplaced
	assert.Equal(t, NotVerified, Check(s, j, true).Code)

	s.User.IsVerified = true
	assert.Equal(t, CgpaTooLow, Check(s, j, true).Code)

	s.CGPA = 9.5
	assert.Equal(t, TooManyBacklogs, Check(s, j, true).Code)

	s.Backlogs = 0
	assert.Equal(t, BranchNotAllowed, Check(s, j, true).Code)

	j.Eligibility.AllowedBranches = nil
	assert.Equal(t, AlreadyApplied, Check(s, j, true).Code)
}

func TestCheck_Deterministic(t *testing.T) {
	s := verifiedStudent()
	j := openJob()
	j.Eligibility.MinCGPA = 7.5

	first := Check(s, j, false)
	for i := 0; i < 10; i++ {
		v := Check(s, j, false)
		assert.Equal(t, first.Code, v.Code)
		assert.Equal(t, first.Message, v.Message)
	}
}
