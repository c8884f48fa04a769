package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder kinds. Cooldown suppression is keyed per kind, so a member
// crossing from due-soon to overdue is reminded again under the new kind.
const (
	KindPaymentReminder      = "payment_reminder"
	KindOverdueReminder      = "overdue_reminder"
	KindChildPaymentReminder = "child_payment_reminder"
)

// MessageTemplate holds the operator-editable message body for a reminder
// kind. At most one row per kind.
type MessageTemplate struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind string    `gorm:"uniqueIndex;not null"`
	Body string    `gorm:"type:text;not null"`
	gorm.Model
}

func (t *MessageTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// DefaultTemplates are seeded at startup when a kind has no row yet.
var DefaultTemplates = map[string]string{
	KindPaymentReminder: `Hi {member_name}!

Your {court_name} membership payment of Rs.{amount} is due on {due_date}.

Please make the payment at your earliest convenience.

Thank you for being a valued member!

Contact us: {phone}`,
	KindOverdueReminder: `Dear {member_name},

Your {court_name} membership payment of Rs.{amount} is overdue by {overdue_days} days.

Please make the payment immediately to continue enjoying our facilities.

For any queries, contact us: {phone}

Thank you!`,
}
