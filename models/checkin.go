package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckIn is a court visit. CheckOutTime stays nil while the member is on
// court; a member can hold at most one open check-in.
type CheckIn struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	MemberID uuid.UUID `gorm:"type:uuid;index;not null"`

	MemberName string `gorm:"not null"`
	Phone      string `gorm:"not null"`

	CheckInTime     time.Time  `gorm:"not null"`
	CheckOutTime    *time.Time
	DurationMinutes *int

	UsageType string `gorm:"default:'General Play'"`
	Notes     string

	CreatedAt time.Time
}

func (ci *CheckIn) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return
}
