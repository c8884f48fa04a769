package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership plans. Each maps to a fixed billing period in days.
const (
	PlanMonthly    = "Monthly"
	PlanQuarterly  = "Quarterly"
	PlanHalfYearly = "Half-Yearly"
	PlanAnnual     = "Annual"
)

type Member struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Name  string `gorm:"not null;index"`
	Phone string `gorm:"not null;uniqueIndex"`
	Email string

	Plan   string  `gorm:"not null"`
	Amount float64 `gorm:"type:decimal(10,2);not null"`

	// Denormalized cache of the most recent payment_history entry, updated
	// in the same transaction as each recorded payment.
	LastPaymentDate time.Time `gorm:"type:date;not null"`

	// Days before the due date at which a payment reminder becomes
	// eligible. Operator picks 15 or 30.
	ReminderDays int `gorm:"default:30"`

	Notes string

	Payments []Payment `gorm:"foreignKey:MemberID"`

	gorm.Model
}

func (m *Member) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
