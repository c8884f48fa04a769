package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"courtpro-backend/config"
	"courtpro-backend/models"
	"courtpro-backend/utils"
)

// CreateChildInput defines the expected JSON structure
type CreateChildInput struct {
	Name             string    `json:"name" binding:"required"`
	ParentName       string    `json:"parentName" binding:"required"`
	ParentPhone      string    `json:"parentPhone" binding:"required"`
	Age              int       `json:"age" binding:"required,gt=3"`
	BatchTime        string    `json:"batchTime" binding:"required"`
	MonthlyFee       float64   `json:"monthlyFee" binding:"required,gt=0"`
	StartDate        time.Time `json:"startDate" binding:"required"`
	EmergencyContact string    `json:"emergencyContact"`
	MedicalNotes     string    `json:"medicalNotes"`
}

// UpdateChildInput defines the expected JSON structure
type UpdateChildInput struct {
	Name             *string  `json:"name"`
	ParentName       *string  `json:"parentName"`
	ParentPhone      *string  `json:"parentPhone"`
	Age              *int     `json:"age" binding:"omitempty,gt=3"`
	BatchTime        *string  `json:"batchTime"`
	MonthlyFee       *float64 `json:"monthlyFee" binding:"omitempty,gt=0"`
	EmergencyContact *string  `json:"emergencyContact"`
	MedicalNotes     *string  `json:"medicalNotes"`
	IsActive         *bool    `json:"isActive"`
}

// CreateChild enrolls a child in the training program
func CreateChild(c *gin.Context) {
	var input CreateChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.ParentPhone, config.C.DefaultCountryCode) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid parent phone number format")
		return
	}

	child := models.Child{
		ID:               uuid.New(),
		Name:             utils.SanitizeInput(input.Name),
		ParentName:       utils.SanitizeInput(input.ParentName),
		ParentPhone:      utils.NormalizePhone(input.ParentPhone, config.C.DefaultCountryCode),
		Age:              input.Age,
		BatchTime:        input.BatchTime,
		MonthlyFee:       input.MonthlyFee,
		StartDate:        input.StartDate,
		EmergencyContact: input.EmergencyContact,
		MedicalNotes:     utils.SanitizeInput(input.MedicalNotes),
		IsActive:         true,
	}

	if err := config.DB.Create(&child).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to enroll child")
		return
	}

	c.JSON(http.StatusCreated, child)
}

// GetChildren lists enrollees; inactive ones only when ?all=true
func GetChildren(c *gin.Context) {
	query := config.DB.Model(&models.Child{}).Order("name")
	if c.Query("all") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var children []models.Child
	if err := query.Find(&children).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve children")
		return
	}

	c.JSON(http.StatusOK, children)
}

// UpdateChild updates enrollment details, including soft-deactivation via
// isActive.
func UpdateChild(c *gin.Context) {
	childUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid child ID format")
		return
	}

	var input UpdateChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var child models.Child
	if err := config.DB.Where("id = ?", childUUID).First(&child).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Child not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		child.Name = utils.SanitizeInput(*input.Name)
	}
	if input.ParentName != nil {
		child.ParentName = utils.SanitizeInput(*input.ParentName)
	}
	if input.ParentPhone != nil {
		if !utils.ValidatePhone(*input.ParentPhone, config.C.DefaultCountryCode) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid parent phone number format")
			return
		}
		child.ParentPhone = utils.NormalizePhone(*input.ParentPhone, config.C.DefaultCountryCode)
	}
	if input.Age != nil {
		child.Age = *input.Age
	}
	if input.BatchTime != nil {
		child.BatchTime = *input.BatchTime
	}
	if input.MonthlyFee != nil {
		child.MonthlyFee = *input.MonthlyFee
	}
	if input.EmergencyContact != nil {
		child.EmergencyContact = *input.EmergencyContact
	}
	if input.MedicalNotes != nil {
		child.MedicalNotes = utils.SanitizeInput(*input.MedicalNotes)
	}
	if input.IsActive != nil {
		child.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&child).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update child")
		return
	}

	c.JSON(http.StatusOK, child)
}

// RecordChildPayment appends a training-fee ledger entry
func RecordChildPayment(c *gin.Context) {
	childUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid child ID format")
		return
	}

	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var child models.Child
	if err := config.DB.Where("id = ?", childUUID).First(&child).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Child not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	payment := models.ChildPayment{
		ChildID:     child.ID,
		Amount:      input.Amount,
		PaymentDate: input.PaymentDate,
		Method:      input.Method,
		Notes:       utils.SanitizeInput(input.Notes),
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetChildPayments retrieves a child's fee history, newest first
func GetChildPayments(c *gin.Context) {
	childUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid child ID format")
		return
	}

	var payments []models.ChildPayment
	if err := config.DB.Where("child_id = ?", childUUID).
		Order("payment_date DESC").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}
