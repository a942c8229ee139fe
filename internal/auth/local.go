package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=student recruiter"`
}

type loginInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

// RegisterHandler handles local registration by receiving profile info and credentials.
// Newly registered accounts start unverified; the TPO verifies them before
// students can apply anywhere.
// @Summary Register a student or recruiter account
// @Description Username and email must not already exist, password must be at least 8 characters
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'student' or 'recruiter'"
// @Success 201 {object} authResponse "Created account with access token"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Name, email, username, password and role (only 'student' or 'recruiter') must be provided",
		})
		return
	}

	var existing model.User
	err := lh.DB.Where("username = ? OR email = ?", info.Username, info.Email).First(&existing).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username or email already exist",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		Name:     info.Name,
		Email:    &info.Email,
		Username: info.Username,
		Password: hashedPassword,
		Role:     info.Role,
	}

	err = lh.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if info.Role == model.RoleStudent {
			// Empty academic profile, the student fills it in before applying
			return tx.Create(&model.Student{UserID: user.ID}).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	token, err := GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, authResponse{User: user, AccessToken: token})
}

// LoginHandler handles local login with username and password.
// @Summary Log in with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials"
// @Success 200 {object} authResponse "User with access token"
// @Failure 400 {object} utilities.ErrorResponse "Missing credentials"
// @Failure 401 {object} utilities.ErrorResponse "Wrong username or password"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username and password must be provided",
		})
		return
	}

	var user model.User
	if err := lh.DB.Where("username = ?", info.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Wrong username or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if !utilities.CheckPassword(user.Password, info.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Wrong username or password",
		})
		return
	}

	token, err := GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, authResponse{User: user, AccessToken: token})
}
