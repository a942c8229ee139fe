package placement

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/wonder-codes/Placement-Portal-Project/internal/broadcast"
	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/mailer"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func freshStudent(t *testing.T, username string) model.Student {
	t.Helper()
	email := username + "@example.edu"
	user := model.User{
		ID:         uuid.New(),
		Username:   username,
		Name:       "Placement Test " + username,
		Email:      &email,
		Password:   "unused",
		Role:       model.RoleStudent,
		IsVerified: true,
	}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	student := model.Student{
		UserID: user.ID,
		EditableStudentInfo: model.EditableStudentInfo{
			Department: "IT",
			CGPA:       8.2,
		},
		PlacementStatus: model.PlacementUnplaced,
	}
	if err := testDB.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	student.User = user
	return student
}

func loadJob(t *testing.T, id uint) model.Job {
	t.Helper()
	var job model.Job
	if err := testDB.Preload("Company").First(&job, id).Error; err != nil {
		t.Fatalf("failed to load job: %v", err)
	}
	return job
}

func TestApplyPlacement_WritesAndBroadcasts(t *testing.T) {
	student := freshStudent(t, "placement_one")
	job := loadJob(t, database.TestJob1.ID)

	b := &broadcast.Memory{}
	m := &mailer.Memory{}
	svc := NewService(testDB, b, m)

	assert.NoError(t, svc.ApplyPlacement(context.Background(), &student, &job))

	assert.Equal(t, model.PlacementPlaced, student.PlacementStatus)

	var stored model.Student
	assert.NoError(t, testDB.Where("user_id = ?", student.UserID).First(&stored).Error)
	assert.Equal(t, model.PlacementPlaced, stored.PlacementStatus)
	if assert.NotNil(t, stored.PlacedAtID) {
		assert.Equal(t, job.ID, *stored.PlacedAtID)
	}

	events, err := b.Recent(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, student.User.Name, events[0].StudentName)
		assert.Equal(t, "IT", events[0].Department)
		assert.Equal(t, job.Company.Name, events[0].Company)
	}

	sent := m.Sent()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, *student.User.Email, sent[0].To)
		assert.Contains(t, sent[0].Body, job.Company.Name)
	}
}

func TestApplyPlacement_ReplayIsNoop(t *testing.T) {
	student := freshStudent(t, "placement_replay")
	job := loadJob(t, database.TestJob1.ID)

	b := &broadcast.Memory{}
	m := &mailer.Memory{}
	svc := NewService(testDB, b, m)

	assert.NoError(t, svc.ApplyPlacement(context.Background(), &student, &job))
	// Replaying the same terminal transition must not fire the observers again
	assert.NoError(t, svc.ApplyPlacement(context.Background(), &student, &job))

	events, err := b.Recent(context.Background())
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Len(t, m.Sent(), 1)
}

func TestPlaceInTx_RollsBackWithCaller(t *testing.T) {
	student := freshStudent(t, "placement_rollback")
	job := loadJob(t, database.TestJob1.ID)

	b := &broadcast.Memory{}
	m := &mailer.Memory{}
	svc := NewService(testDB, b, m)

	// The placement write joins the caller's transaction; if the caller's
	// unit fails, the student must stay unplaced with no notification row
	err := testDB.Transaction(func(tx *gorm.DB) error {
		placed, err := svc.PlaceInTx(tx, &student, &job)
		assert.NoError(t, err)
		assert.True(t, placed)
		return assert.AnError
	})
	assert.Error(t, err)

	var stored model.Student
	assert.NoError(t, testDB.Where("user_id = ?", student.UserID).First(&stored).Error)
	assert.Equal(t, model.PlacementUnplaced, stored.PlacementStatus)
	assert.Nil(t, stored.PlacedAtID)

	var notifCount int64
	assert.NoError(t, testDB.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", student.UserID, model.NotificationPlacement).
		Count(&notifCount).Error)
	assert.EqualValues(t, 0, notifCount)

	events, err := b.Recent(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, m.Sent())
}

func TestPlaceInTx_ReplayWritesNothing(t *testing.T) {
	student := freshStudent(t, "placement_intx_replay")
	job := loadJob(t, database.TestJob1.ID)

	svc := NewService(testDB, &broadcast.Memory{}, &mailer.Memory{})
	assert.NoError(t, svc.ApplyPlacement(context.Background(), &student, &job))

	err := testDB.Transaction(func(tx *gorm.DB) error {
		placed, err := svc.PlaceInTx(tx, &student, &job)
		assert.NoError(t, err)
		assert.False(t, placed, "replaying an existing placement must not announce again")
		return err
	})
	assert.NoError(t, err)
}

func TestApplyPlacement_BrokenObserversDontFailWrite(t *testing.T) {
	student := freshStudent(t, "placement_degraded")
	job := loadJob(t, database.TestJob1.ID)

	svc := NewService(testDB, failingBroadcaster{}, failingMailer{})

	// Broadcast and email are best-effort; the placement write still lands
	assert.NoError(t, svc.ApplyPlacement(context.Background(), &student, &job))

	var stored model.Student
	assert.NoError(t, testDB.Where("user_id = ?", student.UserID).First(&stored).Error)
	assert.Equal(t, model.PlacementPlaced, stored.PlacementStatus)
}

type failingBroadcaster struct{}

func (failingBroadcaster) PlacementUpdate(ctx context.Context, ev broadcast.Event) error {
	return assert.AnError
}

func (failingBroadcaster) Recent(ctx context.Context) ([]broadcast.Event, error) {
	return nil, assert.AnError
}

type failingMailer struct{}

func (failingMailer) Enqueue(ctx context.Context, e mailer.Email) error {
	return assert.AnError
}
