// controllers/reminder.go
package controllers

import (
	"errors"
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

// Messaging is the dispatch provider, wired in main. Tests swap in a fake.
var Messaging services.Sender

// pendingReminderView is a candidate plus the rendered message and the
// wa.me deep link for the manual send flow.
type pendingReminderView struct {
	services.ReminderCandidate
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl"`
	Error       string `json:"error,omitempty"`
}

type pendingChildReminderView struct {
	services.ChildReminderCandidate
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl"`
}

// GetPendingReminders returns the current candidate list for members and
// children. Read-only: nothing is logged until a send happens.
func GetPendingReminders(c *gin.Context) {
	svc := services.NewReminderService(config.DB)

	memberCandidates, err := svc.PendingReminders()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute pending reminders")
		return
	}
	childCandidates, err := svc.PendingChildReminders()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute pending child reminders")
		return
	}

	now := time.Now()

	memberViews := make([]pendingReminderView, 0, len(memberCandidates))
	for _, cand := range memberCandidates {
		view := pendingReminderView{ReminderCandidate: cand}
		if message, err := renderCandidate(cand, now); err != nil {
			// A broken template must be visible to the operator, not
			// rendered as a silently empty message.
			view.Error = err.Error()
		} else {
			view.Message = message
			view.WhatsAppURL = services.WhatsAppLink(cand.Phone, message)
		}
		memberViews = append(memberViews, view)
	}

	childViews := make([]pendingChildReminderView, 0, len(childCandidates))
	for _, cand := range childCandidates {
		view := pendingChildReminderView{ChildReminderCandidate: cand}
		view.Message = services.ChildReminderMessage(cand, config.C)
		view.WhatsAppURL = services.WhatsAppLink(cand.Phone, view.Message)
		childViews = append(childViews, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"members":  memberViews,
		"children": childViews,
	})
}

// SendRemindersInput selects which pending candidates to dispatch
type SendRemindersInput struct {
	MemberIDs []uuid.UUID `json:"memberIds"`
	ChildIDs  []uuid.UUID `json:"childIds"`
	Channel   string      `json:"channel" binding:"omitempty,oneof=sms whatsapp"`
}

// SendReminderResult is the per-recipient outcome of a batch send
type SendReminderResult struct {
	SubjectID uuid.UUID `json:"subjectId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Kind      string    `json:"kind"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// SendReminders dispatches the selected candidates. Failures are reported
// per recipient and never abort the batch; a failed attempt is logged with
// success=false so the subject stays eligible next scan.
func SendReminders(c *gin.Context) {
	var input SendRemindersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	channel := input.Channel
	if channel == "" {
		channel = services.ChannelSMS
	}

	svc := services.NewReminderService(config.DB)

	memberCandidates, err := svc.PendingReminders()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute pending reminders")
		return
	}
	childCandidates, err := svc.PendingChildReminders()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute pending child reminders")
		return
	}

	selectedMembers := make(map[uuid.UUID]bool, len(input.MemberIDs))
	for _, id := range input.MemberIDs {
		selectedMembers[id] = true
	}
	selectedChildren := make(map[uuid.UUID]bool, len(input.ChildIDs))
	for _, id := range input.ChildIDs {
		selectedChildren[id] = true
	}

	now := time.Now()
	results := make([]SendReminderResult, 0, len(input.MemberIDs)+len(input.ChildIDs))

	for _, cand := range memberCandidates {
		if !selectedMembers[cand.MemberID] {
			continue
		}

		message, err := renderCandidate(cand, now)
		if err != nil {
			var templateErr *services.TemplateError
			if errors.As(err, &templateErr) {
				utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
				return
			}
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to render message")
			return
		}

		results = append(results, dispatchReminder(cand.MemberID, cand.Name, cand.Phone, cand.Kind, message, channel, now))
	}

	for _, cand := range childCandidates {
		if !selectedChildren[cand.ChildID] {
			continue
		}
		message := services.ChildReminderMessage(cand, config.C)
		results = append(results, dispatchReminder(cand.ChildID, cand.ChildName, cand.Phone, cand.Kind, message, channel, now))
	}

	sent := 0
	for _, r := range results {
		if r.Success {
			sent++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"sent":    sent,
		"failed":  len(results) - sent,
		"results": results,
	})
}

func renderCandidate(cand services.ReminderCandidate, now time.Time) (string, error) {
	var template models.MessageTemplate
	if err := config.DB.Where("kind = ?", cand.Kind).First(&template).Error; err != nil {
		return "", err
	}

	return services.RenderTemplate(template.Body, services.TemplateData{
		MemberName:   cand.Name,
		Amount:       cand.Amount,
		Plan:         cand.Plan,
		NextDueDate:  cand.NextDueDate,
		Today:        now,
		CourtName:    config.C.AcademyName,
		ContactPhone: config.C.ContactPhone,
	})
}

func dispatchReminder(subjectID uuid.UUID, name, phone, kind, message, channel string, now time.Time) SendReminderResult {
	normalized := utils.NormalizePhone(phone, config.C.DefaultCountryCode)
	sendErr := Messaging.Send(normalized, message, channel)

	entry := models.ReminderLog{
		SubjectID: subjectID,
		Kind:      kind,
		Message:   message,
		Channel:   channel,
		Success:   sendErr == nil,
		SentAt:    now,
	}
	if sendErr != nil {
		entry.ErrorMessage = sendErr.Error()
	}
	config.DB.Create(&entry)

	result := SendReminderResult{
		SubjectID: subjectID,
		Name:      name,
		Phone:     normalized,
		Kind:      kind,
		Success:   sendErr == nil,
	}
	if sendErr != nil {
		result.Error = sendErr.Error()
	}
	return result
}

// GetReminderStats summarizes recent dispatch outcomes per kind
func GetReminderStats(c *gin.Context) {
	daysBack := 30
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			daysBack = n
		}
	}

	stats, err := services.NewReminderService(config.DB).Statistics(daysBack)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute reminder statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// TestMessagingConnection checks the provider credentials
func TestMessagingConnection(c *gin.Context) {
	ok, detail := Messaging.TestConnection()
	c.JSON(http.StatusOK, gin.H{"connected": ok, "detail": detail})
}
