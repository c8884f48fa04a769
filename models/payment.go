package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is one entry in a member's append-only ledger.
type Payment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	MemberID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount      float64   `gorm:"type:decimal(10,2);not null"`
	PaymentDate time.Time `gorm:"type:date;not null"`
	Method      string
	Notes       string

	CreatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// ChildPayment is one entry in a child's training-fee ledger.
type ChildPayment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	ChildID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount      float64   `gorm:"type:decimal(10,2);not null"`
	PaymentDate time.Time `gorm:"type:date;not null"`
	Method      string
	Notes       string

	CreatedAt time.Time
}

func (p *ChildPayment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
