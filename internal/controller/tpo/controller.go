// Package tpo provides the placement office's administrative handlers:
// student verification, manual placement overrides, the live placements
// feed and aggregate analytics.
package tpo

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wonder-codes/Placement-Portal-Project/internal/broadcast"
	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/placement"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

// TPOController handles placement office endpoints
type TPOController struct {
	DB          *database.DBinstanceStruct
	Effects     *placement.Service
	Broadcaster broadcast.Broadcaster
}

// NewTPOController creates a new instance of TPOController.
func NewTPOController(db *database.DBinstanceStruct, effects *placement.Service, b broadcast.Broadcaster) *TPOController {
	return &TPOController{DB: db, Effects: effects, Broadcaster: b}
}

// VerifyStudentHandler marks a student's profile as verified, unlocking
// the eligibility gate for them.
// @Summary Verify a student profile
// @Tags TPO
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Student user ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 404 {object} utilities.ErrorResponse "Student not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /tpo/students/{id}/verify [put]
func (tc *TPOController) VerifyStudentHandler(c *gin.Context) {
	var user model.User
	if err := tc.DB.Where("id = ? AND role = ?", c.Param("id"), model.RoleStudent).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve student"})
		return
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_verified", true).Error; err != nil {
			return err
		}
		return tx.Create(&model.Notification{
			UserID:  user.ID,
			Title:   "Profile verified",
			Message: "Your profile has been verified by the placement office. You can now apply to jobs.",
			Type:    model.NotificationGeneral,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to verify student"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Student verified"})
}

type overrideRequest struct {
	PlacementStatus string `json:"placement_status" binding:"required,oneof=Unplaced Placed Locked"`
	JobID           *uint  `json:"job_id"`
}

// OverridePlacementHandler sets a student's placement status directly.
// Setting Placed requires the job and runs the full placement effects;
// Unplaced clears the placement record; Locked is an administrative hold.
// @Summary Override a student's placement status
// @Tags TPO
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Student user ID"
// @Param override body overrideRequest true "Target status, with job_id when Placed"
// @Success 200 {object} model.Student
// @Failure 400 {object} utilities.ErrorResponse "Placed without a job_id"
// @Failure 404 {object} utilities.ErrorResponse "Student or job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /tpo/students/{id}/placement [put]
func (tc *TPOController) OverridePlacementHandler(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "placement_status must be Unplaced, Placed or Locked",
		})
		return
	}

	var student model.Student
	if err := tc.DB.Preload("User").Where("user_id = ?", c.Param("id")).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve student"})
		return
	}

	switch req.PlacementStatus {
	case model.PlacementPlaced:
		if req.JobID == nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "job_id is required when setting a student to Placed",
			})
			return
		}
		var job model.Job
		if err := tc.DB.Preload("Company").Where("id = ?", *req.JobID).First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve job"})
			return
		}
		if err := tc.Effects.ApplyPlacement(c.Request.Context(), &student, &job); err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to record placement: %s", err.Error()),
			})
			return
		}
	default:
		err := tc.DB.Model(&model.Student{}).
			Where("user_id = ?", student.UserID).
			Updates(map[string]interface{}{
				"placement_status": req.PlacementStatus,
				"placed_at_id":     nil,
			}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to update placement status"})
			return
		}
		student.PlacementStatus = req.PlacementStatus
		student.PlacedAtID = nil
	}

	c.JSON(http.StatusOK, student)
}

// ListStudentsHandler returns every student profile, optionally filtered
// by department, placement status or verification.
// @Summary List student profiles
// @Tags TPO
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param department query string false "Filter by department"
// @Param placement_status query string false "Filter by placement status"
// @Param verified query bool false "Filter by verification"
// @Success 200 {array} model.Student
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /tpo/students [get]
func (tc *TPOController) ListStudentsHandler(c *gin.Context) {
	query := tc.DB.Preload("User").Preload("PlacedAt.Company").Model(&model.Student{})

	if dept := c.Query("department"); dept != "" {
		query = query.Where("department = ?", dept)
	}
	if status := c.Query("placement_status"); status != "" {
		query = query.Where("placement_status = ?", status)
	}
	if verified := c.Query("verified"); verified != "" {
		query = query.
			Joins("JOIN users ON users.id = students.user_id").
			Where("users.is_verified = ?", verified == "true")
	}

	var students []model.Student
	if err := query.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve students"})
		return
	}

	c.JSON(http.StatusOK, students)
}

// PlacementsFeedHandler returns the rolling window of recent placement
// events shown on the portal dashboard ticker.
// @Summary Recent placement events
// @Tags TPO
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} broadcast.Event
// @Failure 500 {object} utilities.ErrorResponse "Feed unavailable"
// @Router /tpo/placements/feed [get]
func (tc *TPOController) PlacementsFeedHandler(c *gin.Context) {
	events, err := tc.Broadcaster.Recent(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to read placements feed"})
		return
	}
	if events == nil {
		events = []broadcast.Event{}
	}
	c.JSON(http.StatusOK, events)
}

type departmentStats struct {
	Department string  `json:"department"`
	Total      int64   `json:"total"`
	Placed     int64   `json:"placed"`
	AvgPackage float64 `json:"avg_package"`
}

type analyticsResponse struct {
	TotalStudents    int64             `json:"total_students"`
	PlacedStudents   int64             `json:"placed_students"`
	TotalCompanies   int64             `json:"total_companies"`
	OpenJobs         int64             `json:"open_jobs"`
	AveragePackage   float64           `json:"average_package"`
	HighestPackage   float64           `json:"highest_package"`
	DepartmentStats  []departmentStats `json:"department_stats"`
	TotalApplication int64             `json:"total_applications"`
}

// AnalyticsHandler aggregates the placement season's headline numbers and
// the per-department breakdown.
// @Summary Placement analytics
// @Tags TPO
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} analyticsResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /tpo/analytics [get]
func (tc *TPOController) AnalyticsHandler(c *gin.Context) {
	var resp analyticsResponse

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&resp.TotalStudents, tc.DB.Model(&model.Student{})},
		{&resp.PlacedStudents, tc.DB.Model(&model.Student{}).Where("placement_status = ?", model.PlacementPlaced)},
		{&resp.TotalCompanies, tc.DB.Model(&model.Company{}).Where("status = ?", model.CompanyActive)},
		{&resp.OpenJobs, tc.DB.Model(&model.Job{}).Where("status = ?", model.JobPublished)},
		{&resp.TotalApplication, tc.DB.Model(&model.Application{})},
	}
	for _, cnt := range counts {
		if err := cnt.query.Count(cnt.dst).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to compute analytics"})
			return
		}
	}

	row := tc.DB.DB.Raw(`
		SELECT COALESCE(AVG(j.package), 0) AS avg, COALESCE(MAX(j.package), 0) AS max
		FROM students s JOIN jobs j ON j.id = s.placed_at_id
		WHERE s.placement_status = ?`, model.PlacementPlaced).Row()
	if err := row.Scan(&resp.AveragePackage, &resp.HighestPackage); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to compute analytics"})
		return
	}

	err := tc.DB.DB.Raw(`
		SELECT s.department AS department,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE s.placement_status = ?) AS placed,
		       COALESCE(AVG(j.package) FILTER (WHERE s.placement_status = ?), 0) AS avg_package
		FROM students s
		LEFT JOIN jobs j ON j.id = s.placed_at_id
		WHERE s.department <> ''
		GROUP BY s.department
		ORDER BY s.department`,
		model.PlacementPlaced, model.PlacementPlaced).
		Scan(&resp.DepartmentStats).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to compute analytics"})
		return
	}
	if resp.DepartmentStats == nil {
		resp.DepartmentStats = []departmentStats{}
	}

	c.JSON(http.StatusOK, resp)
}
