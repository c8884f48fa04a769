package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Child is a training-program enrollee. Children are deactivated, not
// deleted, so their payment ledger stays intact.
type Child struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Name        string `gorm:"not null;index"`
	ParentName  string `gorm:"not null"`
	ParentPhone string `gorm:"not null"`
	Age         int    `gorm:"not null"`
	BatchTime   string `gorm:"not null"`

	MonthlyFee float64   `gorm:"type:decimal(10,2);not null"`
	StartDate  time.Time `gorm:"type:date;not null"`

	EmergencyContact string
	MedicalNotes     string
	IsActive         bool `gorm:"default:true"`

	Payments []ChildPayment `gorm:"foreignKey:ChildID"`

	gorm.Model
}

func (k *Child) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return
}
