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

// CreateMemberInput defines the expected JSON structure for registration
type CreateMemberInput struct {
	Name         string    `json:"name" binding:"required"`
	Phone        string    `json:"phone" binding:"required"`
	Email        string    `json:"email"`
	Plan         string    `json:"plan" binding:"required,oneof=Monthly Quarterly Half-Yearly Annual"`
	Amount       float64   `json:"amount" binding:"required,gt=0"`
	PaymentDate  time.Time `json:"paymentDate" binding:"required"`
	ReminderDays int       `json:"reminderDays" binding:"required,oneof=15 30"`
	Notes        string    `json:"notes"`
}

// UpdateMemberInput defines the expected JSON structure for updates
type UpdateMemberInput struct {
	Name         *string  `json:"name"`
	Phone        *string  `json:"phone"`
	Email        *string  `json:"email"`
	Plan         *string  `json:"plan" binding:"omitempty,oneof=Monthly Quarterly Half-Yearly Annual"`
	Amount       *float64 `json:"amount" binding:"omitempty,gt=0"`
	ReminderDays *int     `json:"reminderDays" binding:"omitempty,oneof=15 30"`
	Notes        *string  `json:"notes"`
}

// CreateMember registers a member. Registration always records the initial
// payment in the same transaction, so every member has payment history.
func CreateMember(c *gin.Context) {
	var input CreateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone, config.C.DefaultCountryCode) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	if !utils.ValidateEmail(input.Email) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	phone := utils.NormalizePhone(input.Phone, config.C.DefaultCountryCode)

	var existing models.Member
	if err := config.DB.Where("phone = ?", phone).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Member with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	member := models.Member{
		ID:              uuid.New(),
		Name:            utils.SanitizeInput(input.Name),
		Phone:           phone,
		Email:           input.Email,
		Plan:            input.Plan,
		Amount:          input.Amount,
		LastPaymentDate: input.PaymentDate,
		ReminderDays:    input.ReminderDays,
		Notes:           utils.SanitizeInput(input.Notes),
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		initial := models.Payment{
			MemberID:    member.ID,
			Amount:      input.Amount,
			PaymentDate: input.PaymentDate,
			Method:      "Initial Payment",
			Notes:       "Membership registration",
		}
		return tx.Create(&initial).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create member")
		return
	}

	c.JSON(http.StatusCreated, member)
}

// GetMembers retrieves members with optional search, plan filter and sort
func GetMembers(c *gin.Context) {
	query := config.DB.Model(&models.Member{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}
	if plan := c.Query("plan"); plan != "" && plan != "All" {
		query = query.Where("plan = ?", plan)
	}

	switch c.DefaultQuery("sort", "name") {
	case "paymentDate":
		query = query.Order("last_payment_date DESC")
	case "amount":
		query = query.Order("amount DESC")
	case "dueDate":
		query = query.Order("last_payment_date ASC")
	default:
		query = query.Order("name")
	}

	var members []models.Member
	if err := query.Find(&members).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve members")
		return
	}

	c.JSON(http.StatusOK, members)
}

// GetMember retrieves a specific member by ID
func GetMember(c *gin.Context) {
	memberUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return
	}

	var member models.Member
	if err := config.DB.Where("id = ?", memberUUID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Member not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, member)
}

// UpdateMember updates member details. Payment fields move only through
// recorded payments, not through this endpoint.
func UpdateMember(c *gin.Context) {
	memberUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return
	}

	var input UpdateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var member models.Member
	if err := config.DB.Where("id = ?", memberUUID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Member not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		member.Name = utils.SanitizeInput(*input.Name)
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone, config.C.DefaultCountryCode) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		phone := utils.NormalizePhone(*input.Phone, config.C.DefaultCountryCode)

		if member.Phone != phone {
			var existing models.Member
			if err := config.DB.Where("phone = ?", phone).First(&existing).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another member with this phone number already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		member.Phone = phone
	}
	if input.Email != nil {
		if !utils.ValidateEmail(*input.Email) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
			return
		}
		member.Email = *input.Email
	}
	if input.Plan != nil {
		member.Plan = *input.Plan
	}
	if input.Amount != nil {
		member.Amount = *input.Amount
	}
	if input.ReminderDays != nil {
		member.ReminderDays = *input.ReminderDays
	}
	if input.Notes != nil {
		member.Notes = utils.SanitizeInput(*input.Notes)
	}

	if err := config.DB.Save(&member).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update member")
		return
	}

	c.JSON(http.StatusOK, member)
}

// DeleteMember removes a member along with their payment history and
// reminder logs.
func DeleteMember(c *gin.Context) {
	memberUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", memberUUID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", memberUUID).Delete(&models.ReminderLog{}).Error; err != nil {
			return err
		}
		// Hard delete. A soft-deleted row would keep holding the phone's
		// unique index and block re-registration of the same number.
		result := tx.Unscoped().Where("id = ?", memberUUID).Delete(&models.Member{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Member not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete member")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}
