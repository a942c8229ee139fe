// Package file serves uploaded documents back out of the database.
package file

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

// FileController handles file download endpoints
type FileController struct {
	DB *database.DBinstanceStruct
}

// NewFileController creates a new instance of FileController.
func NewFileController(db *database.DBinstanceStruct) *FileController {
	return &FileController{DB: db}
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// GetFile streams a stored file by ID.
// @Summary Download a stored file
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} utilities.ErrorResponse "File not found"
// @Router /file/{id} [get]
func (fc *FileController) GetFile(c *gin.Context) {
	var file model.File
	if err := fc.DB.Where("id = ?", c.Param("id")).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to retrieve file"})
		return
	}

	contentType, ok := contentTypes[file.Extension]
	if !ok {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%d.%s", file.ID, file.Extension))
	c.Data(http.StatusOK, contentType, file.Content)
}
