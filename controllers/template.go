package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"courtpro-backend/config"
	"courtpro-backend/models"
	"courtpro-backend/services"
	"courtpro-backend/utils"
)

// UpdateTemplateInput defines the expected JSON structure
type UpdateTemplateInput struct {
	Body string `json:"body" binding:"required"`
}

// GetTemplates retrieves all message templates
func GetTemplates(c *gin.Context) {
	var templates []models.MessageTemplate
	if err := config.DB.Order("kind").Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetTemplate retrieves the template for one reminder kind
func GetTemplate(c *gin.Context) {
	kind := c.Param("kind")

	var template models.MessageTemplate
	if err := config.DB.Where("kind = ?", kind).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateTemplate replaces a template body. Placeholders are validated on
// save so a bad template is rejected here instead of failing mid-send.
func UpdateTemplate(c *gin.Context) {
	kind := c.Param("kind")

	var input UpdateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := services.ValidateTemplate(input.Body); err != nil {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var template models.MessageTemplate
	if err := config.DB.Where("kind = ?", kind).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	template.Body = input.Body
	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}
