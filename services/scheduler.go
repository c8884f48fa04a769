// services/scheduler.go
package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"courtpro-backend/config"
	"courtpro-backend/models"
	"courtpro-backend/utils"
)

// StartReminderScheduler runs the same pending/render/dispatch pipeline the
// operator triggers by hand, daily at 9 AM. Gated by AUTO_REMINDERS; the
// engine itself never schedules anything.
func StartReminderScheduler(db *gorm.DB, sender Sender, cfg *config.Config) *cron.Cron {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		sent, err := DispatchDueReminders(db, sender, cfg)
		if err != nil {
			log.WithError(err).Error("automatic reminder run failed")
			return
		}
		log.WithField("sent", sent).Info("automatic reminder run completed")
	})

	c.Start()
	log.Info("Reminder scheduler started")
	return c
}

// DispatchDueReminders sends every pending member and child reminder over
// SMS and logs each attempt. One recipient failing never stops the batch.
// Returns the number of successful sends.
func DispatchDueReminders(db *gorm.DB, sender Sender, cfg *config.Config) (int, error) {
	reminders := NewReminderService(db)

	memberCandidates, err := reminders.PendingReminders()
	if err != nil {
		return 0, err
	}
	childCandidates, err := reminders.PendingChildReminders()
	if err != nil {
		return 0, err
	}

	sent := 0
	now := time.Now()

	for _, cand := range memberCandidates {
		var template models.MessageTemplate
		if err := db.Where("kind = ?", cand.Kind).First(&template).Error; err != nil {
			log.WithField("kind", cand.Kind).Warn("no template for reminder kind")
			continue
		}

		message, err := RenderTemplate(template.Body, TemplateData{
			MemberName:   cand.Name,
			Amount:       cand.Amount,
			Plan:         cand.Plan,
			NextDueDate:  cand.NextDueDate,
			Today:        now,
			CourtName:    cfg.AcademyName,
			ContactPhone: cfg.ContactPhone,
		})
		if err != nil {
			log.WithError(err).WithField("kind", cand.Kind).Error("template render failed")
			continue
		}

		phone := utils.NormalizePhone(cand.Phone, cfg.DefaultCountryCode)
		sendErr := sender.Send(phone, message, ChannelSMS)

		entry := models.ReminderLog{
			SubjectID: cand.MemberID,
			Kind:      cand.Kind,
			Message:   message,
			Channel:   ChannelSMS,
			Success:   sendErr == nil,
			SentAt:    now,
		}
		if sendErr != nil {
			entry.ErrorMessage = sendErr.Error()
			log.WithError(sendErr).WithField("phone", phone).Error("reminder send failed")
		} else {
			sent++
		}
		if err := db.Create(&entry).Error; err != nil {
			log.WithError(err).Error("failed to log reminder")
		}
	}

	for _, cand := range childCandidates {
		message := ChildReminderMessage(cand, cfg)

		phone := utils.NormalizePhone(cand.Phone, cfg.DefaultCountryCode)
		sendErr := sender.Send(phone, message, ChannelSMS)

		entry := models.ReminderLog{
			SubjectID: cand.ChildID,
			Kind:      cand.Kind,
			Message:   message,
			Channel:   ChannelSMS,
			Success:   sendErr == nil,
			SentAt:    now,
		}
		if sendErr != nil {
			entry.ErrorMessage = sendErr.Error()
			log.WithError(sendErr).WithField("phone", phone).Error("child reminder send failed")
		} else {
			sent++
		}
		if err := db.Create(&entry).Error; err != nil {
			log.WithError(err).Error("failed to log reminder")
		}
	}

	return sent, nil
}

// ChildReminderMessage builds the fixed training-fee reminder; child
// reminders have no operator-editable template.
func ChildReminderMessage(cand ChildReminderCandidate, cfg *config.Config) string {
	return fmt.Sprintf(`Hi %s!

Your child %s's badminton training fee of Rs.%.2f is due on %s.

Please make the payment to continue the training sessions.

Thank you!
Contact: %s`,
		cand.ParentName, cand.ChildName, cand.Amount,
		cand.NextDueDate.Format("02-01-2006"), cfg.ContactPhone)
}
