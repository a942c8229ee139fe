// Package notification provides HTTP handlers for the in-app inbox.
package notification

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

// NotificationController handles notification endpoints
type NotificationController struct {
	DB *database.DBinstanceStruct
}

// NewNotificationController creates a new instance of NotificationController.
func NewNotificationController(db *database.DBinstanceStruct) *NotificationController {
	return &NotificationController{DB: db}
}

// ListHandler returns the caller's notifications, newest first.
// @Summary List my notifications
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} model.Notification
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /notifications [get]
func (nc *NotificationController) ListHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := nc.DB.Where("user_id = ?", user.ID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = false")
	}

	var notifications []model.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkReadHandler marks one of the caller's notifications as read.
// @Summary Mark a notification as read
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Notification ID"
// @Success 200 {object} utilities.MessageResponse
// @Failure 404 {object} utilities.ErrorResponse "Notification not found"
// @Router /notifications/{id}/read [put]
func (nc *NotificationController) MarkReadHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	res := nc.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		Update("is_read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Notification marked as read"})
}

type bulkRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	Role    string `json:"role" binding:"omitempty,oneof=student recruiter"`
}

// BulkHandler is the TPO announcement fan-out: one notification row per
// targeted user, optionally restricted to a single role.
// @Summary Send an announcement to all users
// @Tags Notification
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param announcement body bulkRequest true "Title, message and optional role filter"
// @Success 200 {object} utilities.MessageResponse
// @Failure 400 {object} utilities.ErrorResponse "Missing title or message"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /notifications/bulk [post]
func (nc *NotificationController) BulkHandler(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "title and message are required"})
		return
	}

	query := nc.DB.Model(&model.User{}).Where("role <> ?", model.RoleTPO)
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}

	var userIDs []string
	if err := query.Pluck("id", &userIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to list recipients"})
		return
	}

	notifications := make([]model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		uid, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		notifications = append(notifications, model.Notification{
			UserID:  uid,
			Title:   req.Title,
			Message: req.Message,
			Type:    model.NotificationGeneral,
		})
	}

	if len(notifications) > 0 {
		if err := nc.DB.Create(&notifications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to create notifications"})
			return
		}
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: fmt.Sprintf("Announcement sent to %d users", len(notifications)),
	})
}

// MarkAllReadHandler marks every notification of the caller as read.
// @Summary Mark all notifications as read
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.MessageResponse
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /notifications/read-all [put]
func (nc *NotificationController) MarkAllReadHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := nc.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", user.ID).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "All notifications marked as read"})
}
