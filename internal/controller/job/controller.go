// Package job provides HTTP handlers for the job posting lifecycle:
// drafting, submission for approval, TPO publish/reject and the student
// facing catalog of open postings.
package job

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

// JobController handles job posting endpoints
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController creates a new instance of JobController.
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{DB: db}
}

type createJobRequest struct {
	model.EditableJobInfo
	Rounds []model.SelectionRound `json:"rounds"`
}

// CreateHandler creates a DRAFT posting under the recruiter's company.
// @Summary Create a job posting
// @Description The posting starts in DRAFT and is invisible to students until the TPO publishes it
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job body createJobRequest true "Job details"
// @Success 201 {object} model.Job
// @Failure 400 {object} utilities.ErrorResponse "Invalid payload or no company profile"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if req.Role == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "role is required"})
		return
	}

	var company model.Company
	if err := jc.DB.Where("created_by_id = ?", user.ID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Register your company profile before posting jobs",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve company"})
		return
	}

	for i := range req.Rounds {
		req.Rounds[i].Seq = i + 1
	}

	job := model.Job{
		RecruiterID:     user.ID,
		CompanyID:       company.ID,
		EditableJobInfo: req.EditableJobInfo,
		Rounds:          req.Rounds,
		Status:          model.JobDraft,
	}

	if err := jc.DB.Create(&job).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Referenced company does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create job: %s", err.Error()),
		})
		return
	}

	job.Company = company
	c.JSON(http.StatusCreated, job)
}

// UpdateHandler edits a posting the recruiter owns. Published postings can
// only be edited by the TPO.
// @Summary Update a job posting
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Param job body model.EditableJobInfo true "Fields to change"
// @Success 200 {object} model.Job
// @Failure 403 {object} utilities.ErrorResponse "Not the owner, or posting already published"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [put]
func (jc *JobController) UpdateHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadJob(c)
	if !ok {
		return
	}

	if user.Role == model.RoleRecruiter {
		if job.RecruiterID != user.ID {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You don't own this job posting"})
			return
		}
		if job.Status == model.JobPublished || job.Status == model.JobClosed {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "Published postings can only be changed by the TPO",
			})
			return
		}
	}

	var info model.EditableJobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&job.EditableJobInfo, &info)

	if err := jc.DB.Omit("Rounds", "Company", "Recruiter", "Applications").Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// SubmitHandler moves the recruiter's DRAFT posting to PENDING_APPROVAL.
// @Summary Submit a posting for TPO approval
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} model.Job
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not a draft"
// @Router /jobs/{id}/submit [put]
func (jc *JobController) SubmitHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadJob(c)
	if !ok {
		return
	}

	if job.RecruiterID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You don't own this job posting"})
		return
	}

	if job.Status != model.JobDraft {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: fmt.Sprintf("Only a draft can be submitted, posting is %s", job.Status),
		})
		return
	}

	job.Status = model.JobPendingApproval
	if err := jc.DB.Omit("Rounds", "Company", "Recruiter", "Applications").Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to submit job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

type reviewRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// ReviewHandler is the TPO's approve/reject decision on a pending posting.
// Approval publishes it; rejection sends it back to DRAFT with a
// notification to the recruiter.
// @Summary Review a pending job posting
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Param decision body reviewRequest true "Approve or reject with a reason"
// @Success 200 {object} model.Job
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not pending approval"
// @Router /jobs/{id}/review [put]
func (jc *JobController) ReviewHandler(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	job, ok := jc.loadJob(c)
	if !ok {
		return
	}

	if job.Status != model.JobPendingApproval {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: fmt.Sprintf("Posting is %s, not pending approval", job.Status),
		})
		return
	}

	var title, message string
	if req.Approve {
		job.Status = model.JobPublished
		title = "Job posting published"
		message = fmt.Sprintf("Your posting for %s is now visible to students", job.Role)
	} else {
		job.Status = model.JobDraft
		title = "Job posting rejected"
		message = fmt.Sprintf("Your posting for %s was sent back: %s", job.Role, req.Reason)
	}

	err := jc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&job).Update("status", job.Status).Error; err != nil {
			return err
		}
		return tx.Create(&model.Notification{
			UserID:  job.RecruiterID,
			Title:   title,
			Message: message,
			Type:    model.NotificationGeneral,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to review job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// CloseHandler closes a published posting to further applications.
// @Summary Close a job posting
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} model.Job
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id}/close [put]
func (jc *JobController) CloseHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadJob(c)
	if !ok {
		return
	}

	if user.Role == model.RoleRecruiter && job.RecruiterID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You don't own this job posting"})
		return
	}

	job.Status = model.JobClosed
	if err := jc.DB.Model(&job).Update("status", model.JobClosed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to close job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListOpenHandler is the student-facing catalog: published, active
// postings whose deadline has not passed, optionally filtered.
// @Summary List open job postings
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job_type query string false "Filter by job type"
// @Param min_package query number false "Minimum package in LPA"
// @Success 200 {array} model.Job
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) ListOpenHandler(c *gin.Context) {
	query := jc.DB.
		Preload("Company").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Where("status = ? AND is_active = true", model.JobPublished).
		Where("deadline IS NULL OR deadline >= ?", time.Now())

	if jobType := c.Query("job_type"); jobType != "" {
		query = query.Where("job_type = ?", jobType)
	}
	if minPackage := c.Query("min_package"); minPackage != "" {
		query = query.Where("package >= ?", minPackage)
	}

	var jobs []model.Job
	if err := query.Order("posted_at DESC").Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve jobs"})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListMineHandler returns every posting of the logged-in recruiter,
// whatever the status.
// @Summary List my job postings
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/my [get]
func (jc *JobController) ListMineHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var jobs []model.Job
	if err := jc.DB.
		Preload("Company").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Where("recruiter_id = ?", user.ID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve jobs"})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListPendingHandler returns postings waiting on a TPO decision.
// @Summary List postings pending approval
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/pending [get]
func (jc *JobController) ListPendingHandler(c *gin.Context) {
	var jobs []model.Job
	if err := jc.DB.
		Preload("Company").
		Where("status = ?", model.JobPendingApproval).
		Order("updated_at ASC").
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve jobs"})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetHandler returns one posting. Students only see open postings.
// @Summary Get a job posting
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} model.Job
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id} [get]
func (jc *JobController) GetHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadJob(c)
	if !ok {
		return
	}

	if user.Role == model.RoleStudent && !job.OpenForApplications(time.Now()) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (jc *JobController) loadJob(c *gin.Context) (model.Job, bool) {
	var job model.Job
	err := jc.DB.
		Preload("Company").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Where("id = ?", c.Param("id")).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return job, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve job"})
		return job, false
	}
	return job, true
}
