// Package company provides HTTP handlers for company profiles: recruiter
// self-registration, TPO activation and the public directory.
package company

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

// CompanyController handles company profile endpoints
type CompanyController struct {
	DB *database.DBinstanceStruct
}

// NewCompanyController creates a new instance of CompanyController.
func NewCompanyController(db *database.DBinstanceStruct) *CompanyController {
	return &CompanyController{DB: db}
}

type registerCompanyRequest struct {
	Name string `json:"name" binding:"required"`
	model.EditableCompanyInfo
}

// RegisterHandler creates the recruiter's company profile in DRAFT.
// One recruiter owns at most one company.
// @Summary Register a company profile
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param company body registerCompanyRequest true "Company details"
// @Success 201 {object} model.Company
// @Failure 400 {object} utilities.ErrorResponse "Invalid payload or duplicate name"
// @Failure 409 {object} utilities.ErrorResponse "Recruiter already has a company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [post]
func (cc *CompanyController) RegisterHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req registerCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if user.Role == model.RoleRecruiter {
		var existing int64
		if err := cc.DB.Model(&model.Company{}).
			Where("created_by_id = ?", user.ID).
			Count(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to check company"})
			return
		}
		if existing > 0 {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "You already registered a company"})
			return
		}
	}

	// Profiles registered by the TPO office skip the activation step
	status := model.CompanyDraft
	if user.Role == model.RoleTPO {
		status = model.CompanyActive
	}

	company := model.Company{
		Name:                req.Name,
		EditableCompanyInfo: req.EditableCompanyInfo,
		Status:              status,
		CreatedByID:         user.ID,
	}

	if err := cc.DB.Create(&company).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "A company with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, company)
}

// UpdateHandler edits the descriptive fields of a company the caller owns.
// @Summary Update a company profile
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company ID"
// @Param company body model.EditableCompanyInfo true "Fields to change"
// @Success 200 {object} model.Company
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id} [put]
func (cc *CompanyController) UpdateHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	company, ok := cc.loadCompany(c)
	if !ok {
		return
	}

	if user.Role == model.RoleRecruiter && company.CreatedByID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You don't own this company profile"})
		return
	}

	var info model.EditableCompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&company.EditableCompanyInfo, &info)

	if err := cc.DB.Omit("CreatedBy").Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}

// ActivateHandler is the TPO switching a company from DRAFT to ACTIVE.
// @Summary Activate a company profile
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company ID"
// @Success 200 {object} model.Company
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id}/activate [put]
func (cc *CompanyController) ActivateHandler(c *gin.Context) {
	company, ok := cc.loadCompany(c)
	if !ok {
		return
	}

	company.Status = model.CompanyActive
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&company).Update("status", model.CompanyActive).Error; err != nil {
			return err
		}
		return tx.Create(&model.Notification{
			UserID:  company.CreatedByID,
			Title:   "Company activated",
			Message: fmt.Sprintf("%s is now active on the portal. You can post jobs.", company.Name),
			Type:    model.NotificationGeneral,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to activate company"})
		return
	}

	c.JSON(http.StatusOK, company)
}

// DeactivateHandler retires a company from the portal. The record is kept
// for history; the directory and its open postings stop showing it.
// @Summary Deactivate a company profile
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id} [delete]
func (cc *CompanyController) DeactivateHandler(c *gin.Context) {
	company, ok := cc.loadCompany(c)
	if !ok {
		return
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&company).Update("is_active", false).Error; err != nil {
			return err
		}
		// Its postings disappear from the open jobs listing as well
		if err := tx.Model(&model.Job{}).
			Where("company_id = ?", company.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&model.Notification{
			UserID:  company.CreatedByID,
			Title:   "Company deactivated",
			Message: fmt.Sprintf("%s has been removed from the portal by the TPO office.", company.Name),
			Type:    model.NotificationGeneral,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to deactivate company"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Company deactivated"})
}

// ListHandler returns the company directory. Students and recruiters see
// active companies only; the TPO also sees drafts.
// @Summary List companies
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Company
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [get]
func (cc *CompanyController) ListHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := cc.DB.Model(&model.Company{}).Where("is_active = true")
	if user.Role != model.RoleTPO {
		query = query.Where("status = ?", model.CompanyActive)
	}

	var companies []model.Company
	if err := query.Order("name ASC").Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve companies"})
		return
	}

	c.JSON(http.StatusOK, companies)
}

// GetMineHandler returns the recruiter's own company profile.
// @Summary Get my company profile
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Company
// @Failure 404 {object} utilities.ErrorResponse "No company registered yet"
// @Router /companies/my [get]
func (cc *CompanyController) GetMineHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var company model.Company
	if err := cc.DB.Where("created_by_id = ?", user.ID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "No company registered yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve company"})
		return
	}

	c.JSON(http.StatusOK, company)
}

// GetHandler returns one company profile.
// @Summary Get a company profile
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company ID"
// @Success 200 {object} model.Company
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id} [get]
func (cc *CompanyController) GetHandler(c *gin.Context) {
	company, ok := cc.loadCompany(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, company)
}

func (cc *CompanyController) loadCompany(c *gin.Context) (model.Company, bool) {
	var company model.Company
	if err := cc.DB.Where("id = ?", c.Param("id")).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
			return company, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve company"})
		return company, false
	}
	return company, true
}
