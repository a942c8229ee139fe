// Package student provides HTTP handlers for the student profile and
// resume upload.
package student

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

// MaxResumeSize caps resume uploads at 5 MiB.
const MaxResumeSize = 5 << 20

// StudentController handles student profile endpoints
type StudentController struct {
	DB *database.DBinstanceStruct
}

// NewStudentController creates a new instance of StudentController.
func NewStudentController(db *database.DBinstanceStruct) *StudentController {
	return &StudentController{DB: db}
}

// GetMyProfile returns the logged-in student's profile with the placement
// record when present.
// @Summary Get my student profile
// @Tags Student
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Student
// @Failure 404 {object} utilities.ErrorResponse "Student profile missing"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /students/me [get]
func (sc *StudentController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var student model.Student
	if err := sc.DB.
		Preload("User").
		Preload("PlacedAt.Company").
		Where("user_id = ?", user.ID).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student profile missing"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve student profile"})
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateMyProfile merges the provided fields into the student's profile.
// Editing the profile resets verification so the TPO reviews the new data.
// @Summary Update my student profile
// @Tags Student
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param profile body model.EditableStudentInfo true "Fields to change"
// @Success 200 {object} model.Student
// @Failure 400 {object} utilities.ErrorResponse "Invalid department or CGPA"
// @Failure 404 {object} utilities.ErrorResponse "Student profile missing"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /students/me [put]
func (sc *StudentController) UpdateMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info model.EditableStudentInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if info.Department != "" && !utilities.Contains(model.Departments, info.Department) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown department %q, must be one of %s",
				info.Department, strings.Join(model.Departments, ", ")),
		})
		return
	}
	if info.CGPA < 0 || info.CGPA > 10 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "CGPA must be between 0 and 10"})
		return
	}
	if info.Backlogs < 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Backlogs cannot be negative"})
		return
	}

	var student model.Student
	if err := sc.DB.Preload("User").Where("user_id = ?", user.ID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student profile missing"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve student profile"})
		return
	}

	utilities.MergeNonEmpty(&student.EditableStudentInfo, &info)

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "PlacedAt").Save(&student).Error; err != nil {
			return err
		}
		// Academic data changed, TPO has to verify again
		return tx.Model(&model.User{}).Where("id = ?", user.ID).
			Update("is_verified", false).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	student.User.IsVerified = false
	c.JSON(http.StatusOK, student)
}

// UploadResume stores the student's resume and records its URL on the profile.
// @Summary Upload my resume
// @Tags Student
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume formData file true "PDF resume, at most 5 MiB"
// @Success 200 {object} model.Student
// @Failure 400 {object} utilities.ErrorResponse "Missing or oversized file"
// @Failure 404 {object} utilities.ErrorResponse "Student profile missing"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /students/me/resume [post]
func (sc *StudentController) UploadResume(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	header, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "resume file is required"})
		return
	}
	if header.Size > MaxResumeSize {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Resume must be at most 5 MiB"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to read upload"})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to read upload"})
		return
	}

	var student model.Student
	if err := sc.DB.Preload("User").Where("user_id = ?", user.ID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student profile missing"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve student profile"})
		return
	}

	file := model.File{
		Content:   content,
		Extension: strings.TrimPrefix(filepath.Ext(header.Filename), "."),
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&file).Error; err != nil {
			return err
		}
		student.ResumeURL = fmt.Sprintf("/api/v1/file/%d", file.ID)
		return tx.Model(&student).Update("resume_url", student.ResumeURL).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, student)
}
