package company

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wonder-codes/Placement-Portal-Project/internal/auth"
	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/middleware"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
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

func buildRouter() *gin.Engine {
	cc := NewCompanyController(testDB)
	r := gin.New()
	r.Use(middleware.RequireAuth(testDB))
	r.GET("/companies", cc.ListHandler)
	r.GET("/companies/:id", cc.GetHandler)
	r.PUT("/companies/:id/activate", middleware.CheckRole(model.RoleTPO), cc.ActivateHandler)
	r.DELETE("/companies/:id", middleware.CheckRole(model.RoleTPO), cc.DeactivateHandler)
	return r
}

func makeActiveCompany(t *testing.T, name string) model.Company {
	t.Helper()
	company := model.Company{
		Name:        name,
		Status:      model.CompanyActive,
		IsActive:    true,
		CreatedByID: database.TestUserRecruiter1.ID,
	}
	if err := testDB.Create(&company).Error; err != nil {
		t.Fatalf("failed to create company: %v", err)
	}
	return company
}

func TestDeactivateCompany(t *testing.T) {
	tpoToken, err := auth.GetAccessToken(t, testDB, database.TestTPOUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	studentToken, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	company := makeActiveCompany(t, "Sunset Systems")
	job := model.Job{
		RecruiterID: database.TestUserRecruiter1.ID,
		CompanyID:   company.ID,
		EditableJobInfo: model.EditableJobInfo{
			Role:    "Support Engineer",
			Package: 6,
		},
		Status:   model.JobPublished,
		IsActive: true,
	}
	assert.NoError(t, testDB.Create(&job).Error)

	r := buildRouter()
	rec, resp := testutil.MakeJSONRequest(nil, tpoToken, r,
		fmt.Sprintf("/companies/%d", company.ID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Company deactivated", resp["message"])

	var stored model.Company
	assert.NoError(t, testDB.First(&stored, company.ID).Error)
	assert.False(t, stored.IsActive)

	// Its postings are retired along with it
	var storedJob model.Job
	assert.NoError(t, testDB.First(&storedJob, job.ID).Error)
	assert.False(t, storedJob.IsActive)

	// And the directory stops listing it
	rec, companies := testutil.MakeJSONListRequest(studentToken, r, "/companies")
	assert.Equal(t, http.StatusOK, rec.Code)
	for _, c := range companies {
		assert.NotEqual(t, "Sunset Systems", c["name"])
	}

	// The owner is told about the removal
	var notifCount int64
	assert.NoError(t, testDB.Model(&model.Notification{}).
		Where("user_id = ? AND title = ?", database.TestUserRecruiter1.ID, "Company deactivated").
		Count(&notifCount).Error)
	assert.GreaterOrEqual(t, notifCount, int64(1))
}

func TestDeactivateCompany_RecruiterForbidden(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, database.TestUserRecruiter1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	company := makeActiveCompany(t, "Evergreen Labs")

	r := buildRouter()
	rec, _ := testutil.MakeJSONRequest(nil, recruiterToken, r,
		fmt.Sprintf("/companies/%d", company.ID), http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var stored model.Company
	assert.NoError(t, testDB.First(&stored, company.ID).Error)
	assert.True(t, stored.IsActive)
}

func TestDeactivateCompany_NotFound(t *testing.T) {
	tpoToken, err := auth.GetAccessToken(t, testDB, database.TestTPOUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := buildRouter()
	rec, _ := testutil.MakeJSONRequest(nil, tpoToken, r, "/companies/999999", http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
