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

// RecordPaymentInput defines the expected JSON structure
type RecordPaymentInput struct {
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	PaymentDate time.Time `json:"paymentDate" binding:"required"`
	Method      string    `json:"method"`
	Notes       string    `json:"notes"`
}

// RecordPayment appends a ledger entry and refreshes the member's
// denormalized last-payment fields in one transaction.
func RecordPayment(c *gin.Context) {
	memberUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return
	}

	var input RecordPaymentInput
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

	payment := models.Payment{
		MemberID:    member.ID,
		Amount:      input.Amount,
		PaymentDate: input.PaymentDate,
		Method:      input.Method,
		Notes:       utils.SanitizeInput(input.Notes),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&member).Updates(map[string]interface{}{
			"amount":            input.Amount,
			"last_payment_date": input.PaymentDate,
		}).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetMemberPayments retrieves a member's payment history, newest first
func GetMemberPayments(c *gin.Context) {
	memberUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return
	}

	var payments []models.Payment
	if err := config.DB.Where("member_id = ?", memberUUID).
		Order("payment_date DESC").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPayments lists every member payment with member context, used by the
// payment tracking page.
func GetPayments(c *gin.Context) {
	type paymentRow struct {
		ID          uuid.UUID `json:"id"`
		MemberID    uuid.UUID `json:"memberId"`
		MemberName  string    `json:"memberName"`
		Phone       string    `json:"phone"`
		Amount      float64   `json:"amount"`
		PaymentDate time.Time `json:"paymentDate"`
		Method      string    `json:"method"`
		Notes       string    `json:"notes"`
	}

	var rows []paymentRow
	err := config.DB.Model(&models.Payment{}).
		Select("payments.id, payments.member_id, members.name AS member_name, members.phone, payments.amount, payments.payment_date, payments.method, payments.notes").
		Joins("JOIN members ON members.id = payments.member_id").
		Order("payments.payment_date DESC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, rows)
}
