package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"courtpro-backend/config"
	"courtpro-backend/models"
	"courtpro-backend/services"
	"courtpro-backend/utils"
)

// SendBulkMessageInput defines the expected JSON structure. Audience is
// either the member list (optionally filtered by plan) or the parents of
// active trainees.
type SendBulkMessageInput struct {
	Audience string `json:"audience" binding:"required,oneof=members parents"`
	Plan     string `json:"plan"`
	Message  string `json:"message" binding:"required"`
	Channel  string `json:"channel" binding:"omitempty,oneof=sms whatsapp"`
}

type bulkRecipient struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

// SendBulkMessage sends an announcement to the selected audience with
// per-recipient outcomes. A rejected recipient never blocks the rest.
func SendBulkMessage(c *gin.Context) {
	var input SendBulkMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	channel := input.Channel
	if channel == "" {
		channel = services.ChannelSMS
	}

	recipients, err := bulkRecipients(input.Audience, input.Plan)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load recipients")
		return
	}
	if len(recipients) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No recipients match the selection")
		return
	}

	type bulkResult struct {
		ID      uuid.UUID `json:"id"`
		Name    string    `json:"name"`
		Phone   string    `json:"phone"`
		Success bool      `json:"success"`
		Error   string    `json:"error,omitempty"`
	}

	results := make([]bulkResult, 0, len(recipients))
	sent := 0

	for _, r := range recipients {
		phone := utils.NormalizePhone(r.Phone, config.C.DefaultCountryCode)
		err := Messaging.Send(phone, input.Message, channel)

		result := bulkResult{ID: r.ID, Name: r.Name, Phone: phone, Success: err == nil}
		if err != nil {
			result.Error = err.Error()
		} else {
			sent++
		}
		results = append(results, result)
	}

	entry := models.BulkMessageLog{
		Message:        input.Message,
		RecipientCount: len(recipients),
		Kind:           input.Audience,
		SentBy:         "Operator",
		SentAt:         time.Now(),
	}
	config.DB.Create(&entry)

	c.JSON(http.StatusOK, gin.H{
		"sent":    sent,
		"failed":  len(results) - sent,
		"results": results,
	})
}

func bulkRecipients(audience, plan string) ([]bulkRecipient, error) {
	recipients := []bulkRecipient{}

	switch audience {
	case "parents":
		var children []models.Child
		if err := config.DB.Where("is_active = ?", true).Order("parent_name").Find(&children).Error; err != nil {
			return nil, err
		}
		seen := map[string]bool{}
		for _, k := range children {
			if seen[k.ParentPhone] {
				continue
			}
			seen[k.ParentPhone] = true
			recipients = append(recipients, bulkRecipient{ID: k.ID, Name: k.ParentName, Phone: k.ParentPhone})
		}
	default:
		query := config.DB.Model(&models.Member{}).Order("name")
		if plan != "" && plan != "All" {
			query = query.Where("plan = ?", plan)
		}
		var members []models.Member
		if err := query.Find(&members).Error; err != nil {
			return nil, err
		}
		for _, m := range members {
			recipients = append(recipients, bulkRecipient{ID: m.ID, Name: m.Name, Phone: m.Phone})
		}
	}

	return recipients, nil
}

// EstimateBulkCost returns the budgeting figure for a planned send
func EstimateBulkCost(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("recipients", "0"))
	if err != nil || count < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid recipient count")
		return
	}
	channel := c.DefaultQuery("channel", services.ChannelSMS)

	estimate := services.NewMessageService(config.C).EstimateCost(count, channel)
	c.JSON(http.StatusOK, estimate)
}

// GetBulkMessageHistory lists recent bulk sends
func GetBulkMessageHistory(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var history []models.BulkMessageLog
	if err := config.DB.Order("sent_at DESC").Limit(limit).Find(&history).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bulk message history")
		return
	}

	c.JSON(http.StatusOK, history)
}
