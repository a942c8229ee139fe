// Package application provides HTTP handlers for the application lifecycle:
// the eligibility-gated apply, recruiter/TPO status transitions and the
// student's offer response.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/eligibility"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/placement"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

// ApplicationController handles application lifecycle endpoints
type ApplicationController struct {
	DB      *database.DBinstanceStruct
	Effects *placement.Service
}

// NewApplicationController creates a new instance of ApplicationController.
func NewApplicationController(db *database.DBinstanceStruct, effects *placement.Service) *ApplicationController {
	return &ApplicationController{
		DB:      db,
		Effects: effects,
	}
}

type applyRequest struct {
	JobID uint `json:"job_id" binding:"required"`
}

type statusUpdateRequest struct {
	Status            string                `json:"status" binding:"required"`
	RoundsProgress    []model.RoundProgress `json:"rounds_progress"`
	TestSchedule      *model.Schedule       `json:"test_schedule"`
	InterviewSchedule *model.Schedule       `json:"interview_schedule"`
	OfferDetails      *model.OfferDetails   `json:"offer_details"`
}

type respondRequest struct {
	Response string `json:"response" binding:"required,oneof=Accepted Rejected"`
}

// ApplyHandler runs the eligibility gate and creates an application in
// status Applied. The duplicate rule is enforced twice: by the engine's
// read and by the (student_id, job_id) unique index, so two concurrent
// applies cannot both get through.
// @Summary Apply to a published job
// @Description Only verified, unplaced students pass the eligibility gate
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body applyRequest true "Job to apply to"
// @Success 201 {object} model.Application "Application created"
// @Failure 400 {object} utilities.ErrorResponse "Eligibility violation, carries the reason code"
// @Failure 404 {object} utilities.ErrorResponse "Student profile or job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [post]
func (ac *ApplicationController) ApplyHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var student model.Student
	if err := ac.DB.Preload("User").Where("user_id = ?", user.ID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student profile missing"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve student profile"})
		return
	}

	var job model.Job
	if err := ac.DB.Preload("Company").Where("id = ?", req.JobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve job"})
		return
	}

	// Unpublished postings don't exist as far as students are concerned
	if !job.OpenForApplications(time.Now()) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	var existing int64
	if err := ac.DB.Model(&model.Application{}).
		Where("student_id = ? AND job_id = ?", student.UserID, job.ID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to check existing application"})
		return
	}

	if v := eligibility.Check(student, job, existing > 0); v != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: v.Message, Code: string(v.Code)})
		return
	}

	application := model.Application{
		StudentID: student.UserID,
		JobID:     job.ID,
		Status:    model.StatusApplied,
	}

	if err := ac.DB.Create(&application).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Lost the race against a concurrent apply for the same pair
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Already applied for this job",
				Code:  string(eligibility.AlreadyApplied),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, application)
}

// GetMyApplications returns the logged-in student's applications, newest first.
// @Summary List my applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Application
// @Failure 404 {object} utilities.ErrorResponse "Student profile missing"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/my [get]
func (ac *ApplicationController) GetMyApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var applications []model.Application
	if err := ac.DB.
		Preload("Job.Company").
		Preload("RoundsProgress").
		Where("student_id = ?", user.ID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve applications"})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// GetJobApplications returns every application for one job. Recruiters may
// only read their own postings; the TPO reads any.
// @Summary List applications for a job
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path int true "Job ID"
// @Success 200 {array} model.Application
// @Failure 403 {object} utilities.ErrorResponse "Not the posting recruiter"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/job/{jobId} [get]
func (ac *ApplicationController) GetJobApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var job model.Job
	if err := ac.DB.Where("id = ?", c.Param("jobId")).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve job"})
		return
	}

	if user.Role == model.RoleRecruiter && job.RecruiterID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You don't own this job posting"})
		return
	}

	var applications []model.Application
	if err := ac.DB.
		Preload("Student.User").
		Preload("RoundsProgress").
		Where("job_id = ?", job.ID).
		Order("applied_at ASC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve applications"})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// UpdateStatusHandler drives a recruiter/TPO transition. The status change
// and any schedule/offer/round payloads land in one transaction, together
// with the student's notification row.
// @Summary Update application status
// @Description Transitions are validated against the lifecycle table; Test/Interview Scheduled require a schedule, Selected requires offer details
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application ID"
// @Param update body statusUpdateRequest true "Target status with attachments"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Unknown status or missing attachment"
// @Failure 403 {object} utilities.ErrorResponse "Not the posting recruiter, or an offer response"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 409 {object} utilities.ErrorResponse "Illegal transition for the current status"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/status [put]
func (ac *ApplicationController) UpdateStatusHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	application, ok := ac.loadApplication(c)
	if !ok {
		return
	}

	if user.Role == model.RoleRecruiter && application.Job.RecruiterID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You don't own this job posting"})
		return
	}

	if req.Status == model.StatusOfferAccepted || req.Status == model.StatusOfferRejected {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Only the applicant can respond to an offer",
		})
		return
	}

	if !model.CanTransition(application.Status, req.Status) {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: fmt.Sprintf("Cannot move application from %q to %q", application.Status, req.Status),
			Code:  "IllegalTransition",
		})
		return
	}

	// Scheduling statuses must carry (or already have) their appointment;
	// Selected must carry the offer the student will respond to.
	switch req.Status {
	case model.StatusTestScheduled:
		if req.TestSchedule != nil {
			application.TestSchedule = *req.TestSchedule
		}
		if application.TestSchedule.IsZero() {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "test_schedule is required to schedule a test"})
			return
		}
	case model.StatusInterviewScheduled:
		if req.InterviewSchedule != nil {
			application.InterviewSchedule = *req.InterviewSchedule
		}
		if application.InterviewSchedule.IsZero() {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "interview_schedule is required to schedule an interview"})
			return
		}
	case model.StatusSelected:
		if req.OfferDetails != nil {
			application.Offer = *req.OfferDetails
		}
		if application.Offer.IsZero() {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "offer_details is required to select a candidate"})
			return
		}
	}

	for _, rp := range req.RoundsProgress {
		if rp.Status != "" && !model.ValidRoundStatus(rp.Status) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Unknown round status %q", rp.Status),
			})
			return
		}
	}

	application.Status = req.Status

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("RoundsProgress", "Student", "Job").Save(&application).Error; err != nil {
			return err
		}

		for _, rp := range req.RoundsProgress {
			rp.ID = 0
			rp.ApplicationID = application.ID
			if rp.Status == "" {
				rp.Status = model.RoundPending
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "application_id"}, {Name: "round_name"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "feedback", "score"}),
			}).Create(&rp).Error; err != nil {
				return err
			}
		}

		return tx.Create(&model.Notification{
			UserID: application.StudentID,
			Title:  "Application update",
			Message: fmt.Sprintf("Your application for %s at %s is now %s",
				application.Job.Role, application.Job.Company.Name, application.Status),
			Type: model.NotificationApplication,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	if err := ac.DB.Preload("RoundsProgress").First(&application, application.ID).Error; err == nil {
		c.JSON(http.StatusOK, application)
		return
	}
	c.JSON(http.StatusOK, application)
}

// RespondHandler lets the owning student accept or reject a pending offer.
// Accepting runs the placement effects: the student is locked as Placed and
// the broadcast/email observers fire exactly once.
// @Summary Respond to an offer
// @Description Only valid while the application is in Selected
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application ID"
// @Param response body respondRequest true "Accepted or Rejected"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Invalid response value"
// @Failure 403 {object} utilities.ErrorResponse "Not the owning student"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 409 {object} utilities.ErrorResponse "No offer pending"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/respond [put]
func (ac *ApplicationController) RespondHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Response must be 'Accepted' or 'Rejected'",
		})
		return
	}

	application, ok := ac.loadApplication(c)
	if !ok {
		return
	}

	if application.StudentID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "This application is not yours"})
		return
	}

	if application.Status != model.StatusSelected {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "No offer pending on this application",
			Code:  "NoOfferPending",
		})
		return
	}

	if req.Response == "Accepted" {
		application.Status = model.StatusOfferAccepted
	} else {
		application.Status = model.StatusOfferRejected
	}

	// The terminal status and the student placement record commit as one
	// unit: an accepted offer can never be left behind with an unplaced
	// student, and a failure rolls both back so the respond can be retried.
	var placed bool
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("RoundsProgress", "Student", "Job").Save(&application).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.Notification{
			UserID: application.StudentID,
			Title:  "Offer response recorded",
			Message: fmt.Sprintf("You %s the offer from %s for %s",
				req.Response, application.Job.Company.Name, application.Job.Role),
			Type: model.NotificationApplication,
		}).Error; err != nil {
			return err
		}
		if application.Status == model.StatusOfferAccepted {
			var err error
			placed, err = ac.Effects.PlaceInTx(tx, &application.Student, &application.Job)
			return err
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	if placed {
		ac.Effects.AnnouncePlacement(c.Request.Context(), &application.Student, &application.Job)
	}

	c.JSON(http.StatusOK, application)
}

// loadApplication fetches the application in the :id param with its student
// and job loaded, writing the error response itself on failure.
func (ac *ApplicationController) loadApplication(c *gin.Context) (model.Application, bool) {
	var application model.Application
	err := ac.DB.
		Preload("Student.User").
		Preload("Job.Company").
		Preload("RoundsProgress").
		Where("id = ?", c.Param("id")).
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return application, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve application"})
		return application, false
	}
	return application, true
}
