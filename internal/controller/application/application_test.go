package application

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/wonder-codes/Placement-Portal-Project/internal/auth"
	"github.com/wonder-codes/Placement-Portal-Project/internal/broadcast"
	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/mailer"
	"github.com/wonder-codes/Placement-Portal-Project/internal/middleware"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/placement"
	"github.com/wonder-codes/Placement-Portal-Project/internal/testutil"
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

// buildRouter wires the application routes the way the server does, with
// in-memory broadcast and mail capture.
func buildRouter() (*gin.Engine, *broadcast.Memory, *mailer.Memory) {
	b := &broadcast.Memory{}
	m := &mailer.Memory{}
	effects := placement.NewService(testDB, b, m)
	ac := NewApplicationController(testDB, effects)

	r := gin.New()
	r.Use(middleware.RequireAuth(testDB))
	r.POST("/applications", middleware.CheckRole(model.RoleStudent), ac.ApplyHandler)
	r.GET("/applications/my", middleware.CheckRole(model.RoleStudent), ac.GetMyApplications)
	r.PUT("/applications/:id/status", middleware.CheckRole(model.RoleRecruiter, model.RoleTPO), ac.UpdateStatusHandler)
	r.PUT("/applications/:id/respond", middleware.CheckRole(model.RoleStudent), ac.RespondHandler)
	return r, b, m
}

// makeStudent seeds a verified CS student with the shared seed password.
func makeStudent(t *testing.T, username string, cgpa float64) (model.User, model.Student) {
	t.Helper()
	hashed, err := testutilHashPassword()
	assert.NoError(t, err)

	email := username + "@example.edu"
	user := model.User{
		ID:         uuid.New(),
		Username:   username,
		Name:       "Test Student " + username,
		Email:      &email,
		Password:   hashed,
		Role:       model.RoleStudent,
		IsVerified: true,
	}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	student := model.Student{
		UserID: user.ID,
		EditableStudentInfo: model.EditableStudentInfo{
			Department:  "CS",
			CGPA:        cgpa,
			Backlogs:    0,
			PassingYear: 2026,
		},
		PlacementStatus: model.PlacementUnplaced,
	}
	if err := testDB.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student profile: %v", err)
	}
	student.User = user
	return user, student
}

var hashedSeedOnce struct {
	sync.Once
	hash string
	err  error
}

func testutilHashPassword() (string, error) {
	hashedSeedOnce.Do(func() {
		hashedSeedOnce.hash, hashedSeedOnce.err = hashSeed()
	})
	return hashedSeedOnce.hash, hashedSeedOnce.err
}

func hashSeed() (string, error) {
	var seeded model.User
	// Reuse the seeded hash instead of paying bcrypt cost per student
	if err := testDB.Where("username = ?", database.TestUserStudent1.Username).First(&seeded).Error; err != nil {
		return "", err
	}
	return seeded.Password, nil
}

func TestApplyHandler_Success(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob1.ID}, token, r, "/applications", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, string(model.StatusApplied), resp["status"])
	assert.Equal(t, float64(database.TestJob1.ID), resp["job_id"])
}

func TestApplyHandler_Duplicate(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	// First apply happened in the success test; same pair again must fail
	rec, resp := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob1.ID}, token, r, "/applications", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "AlreadyApplied", resp["code"])
}

func TestApplyHandler_CgpaTooLow(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob2.ID}, token, r, "/applications", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CgpaTooLow", resp["code"])
	// The message carries the threshold so students know how far off they are
	assert.Contains(t, resp["error"], "7.5")
}

func TestApplyHandler_NotVerified(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob1.ID}, token, r, "/applications", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NotVerified", resp["code"])
}

func TestApplyHandler_BranchNotAllowed(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob4.ID}, token, r, "/applications", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BranchNotAllowed", resp["code"])
}

func TestApplyHandler_DraftJobHidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, _ := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob3.ID}, token, r, "/applications", http.MethodPost)

	// Unpublished postings don't exist as far as students are concerned
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyHandler_ConcurrentDuplicate(t *testing.T) {
	user, _ := makeStudent(t, "race_student", 8.0)
	token, err := auth.GetAccessToken(t, testDB, user.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()

	const attempts = 8
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, _ := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob1.ID}, token, r, "/applications", http.MethodPost)
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	created := 0
	for code := range codes {
		if code == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusBadRequest, code)
		}
	}
	assert.Equal(t, 1, created, "exactly one concurrent apply must win")

	var count int64
	err = testDB.Model(&model.Application{}).
		Where("student_id = ? AND job_id = ?", user.ID, database.TestJob1.ID).
		Count(&count).Error
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGetMyApplications(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, resp := testutil.MakeJSONListRequest(token, r, "/applications/my")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, len(resp), 1)
}

func TestUpdateStatus_RequiresSchedule(t *testing.T) {
	user, _ := makeStudent(t, "sched_student", 8.0)
	app := model.Application{StudentID: user.ID, JobID: database.TestJob2.ID, Status: model.StatusApplied}
	assert.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, database.TestUserRecruiter1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"status": model.StatusTestScheduled}, token, r,
		fmt.Sprintf("/applications/%d/status", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "test_schedule")
}

func TestUpdateStatus_TransitionWithScheduleAndNotification(t *testing.T) {
	user, _ := makeStudent(t, "flow_student", 8.0)
	app := model.Application{StudentID: user.ID, JobID: database.TestJob1.ID, Status: model.StatusApplied}
	assert.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, database.TestUserRecruiter1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	when := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"status":        model.StatusTestScheduled,
		"test_schedule": gin.H{"date_time": when, "location": "Lab 3", "instructions": "Bring ID card"},
		"rounds_progress": []gin.H{
			{"round_name": "Test", "status": model.RoundPending},
		},
	}, token, r, fmt.Sprintf("/applications/%d/status", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.StatusTestScheduled), resp["status"])

	// Status change and notification commit together
	var notifCount int64
	err = testDB.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", user.ID, model.NotificationApplication).
		Count(&notifCount).Error
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, notifCount, int64(1))

	var progress []model.RoundProgress
	assert.NoError(t, testDB.Where("application_id = ?", app.ID).Find(&progress).Error)
	assert.Len(t, progress, 1)
}

func TestUpdateStatus_IllegalBackwardTransition(t *testing.T) {
	user, _ := makeStudent(t, "backward_student", 8.0)
	when := time.Now().Add(24 * time.Hour)
	app := model.Application{
		StudentID:    user.ID,
		JobID:        database.TestJob1.ID,
		Status:       model.StatusTestScheduled,
		TestSchedule: model.Schedule{DateTime: &when, Location: "Lab 1"},
	}
	assert.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, database.TestUserRecruiter1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"status": model.StatusApplied}, token, r,
		fmt.Sprintf("/applications/%d/status", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "IllegalTransition", resp["code"])
}

func TestUpdateStatus_OfferResponseReserved(t *testing.T) {
	user, _ := makeStudent(t, "reserved_student", 8.0)
	app := model.Application{
		StudentID: user.ID,
		JobID:     database.TestJob1.ID,
		Status:    model.StatusSelected,
		Offer:     model.OfferDetails{Salary: 12},
	}
	assert.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, database.TestUserRecruiter1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, _ := testutil.MakeJSONRequest(gin.H{"status": model.StatusOfferAccepted}, token, r,
		fmt.Sprintf("/applications/%d/status", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateStatus_NotOwningRecruiter(t *testing.T) {
	user, _ := makeStudent(t, "foreign_student", 8.0)
	app := model.Application{StudentID: user.ID, JobID: database.TestJob1.ID, Status: model.StatusApplied}
	assert.NoError(t, testDB.Create(&app).Error)

	// recruiter_2 does not own TestJob1
	token, err := auth.GetAccessToken(t, testDB, database.TestUserRecruiter2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, _ := testutil.MakeJSONRequest(gin.H{"status": model.StatusRejected}, token, r,
		fmt.Sprintf("/applications/%d/status", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRespond_NoOfferPending(t *testing.T) {
	user, _ := makeStudent(t, "eager_student", 8.0)
	app := model.Application{StudentID: user.ID, JobID: database.TestJob1.ID, Status: model.StatusApplied}
	assert.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, user.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"response": "Accepted"}, token, r,
		fmt.Sprintf("/applications/%d/respond", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NoOfferPending", resp["code"])
}

func TestRespond_NotOwner(t *testing.T) {
	user, _ := makeStudent(t, "victim_student", 8.0)
	app := model.Application{
		StudentID: user.ID,
		JobID:     database.TestJob1.ID,
		Status:    model.StatusSelected,
		Offer:     model.OfferDetails{Salary: 12},
	}
	assert.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _, _ := buildRouter()
	rec, _ := testutil.MakeJSONRequest(gin.H{"response": "Accepted"}, token, r,
		fmt.Sprintf("/applications/%d/respond", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRespond_AcceptPlacesStudent(t *testing.T) {
	user, _ := makeStudent(t, "lucky_student", 8.0)
	app := model.Application{
		StudentID: user.ID,
		JobID:     database.TestJob1.ID,
		Status:    model.StatusSelected,
		Offer:     model.OfferDetails{Salary: 12},
	}
	assert.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, user.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, b, m := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"response": "Accepted"}, token, r,
		fmt.Sprintf("/applications/%d/respond", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.StatusOfferAccepted), resp["status"])

	var student model.Student
	assert.NoError(t, testDB.Where("user_id = ?", user.ID).First(&student).Error)
	assert.Equal(t, model.PlacementPlaced, student.PlacementStatus)
	if assert.NotNil(t, student.PlacedAtID) {
		assert.Equal(t, database.TestJob1.ID, *student.PlacedAtID)
	}

	events, err := b.Recent(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, "TechNova", events[0].Company)
		assert.Equal(t, "CS", events[0].Department)
		assert.Equal(t, float64(12), events[0].Package)
	}

	sent := m.Sent()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "Congratulations! You are Placed", sent[0].Subject)
	}

	// The placement notification lands in the same commit as the accept
	var notifCount int64
	assert.NoError(t, testDB.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", user.ID, model.NotificationPlacement).
		Count(&notifCount).Error)
	assert.EqualValues(t, 1, notifCount)
}

func TestRespond_RejectLeavesStudentUnplaced(t *testing.T) {
	user, _ := makeStudent(t, "picky_student", 8.0)
	app := model.Application{
		StudentID: user.ID,
		JobID:     database.TestJob1.ID,
		Status:    model.StatusSelected,
		Offer:     model.OfferDetails{Salary: 12},
	}
	assert.NoError(t, testDB.Create(&app).Error)

	token, err := auth.GetAccessToken(t, testDB, user.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, b, _ := buildRouter()
	rec, resp := testutil.MakeJSONRequest(gin.H{"response": "Rejected"}, token, r,
		fmt.Sprintf("/applications/%d/respond", app.ID), http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.StatusOfferRejected), resp["status"])

	var student model.Student
	assert.NoError(t, testDB.Where("user_id = ?", user.ID).First(&student).Error)
	assert.Equal(t, model.PlacementUnplaced, student.PlacementStatus)

	events, err := b.Recent(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, events)
}
