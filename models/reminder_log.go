// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderLog records every dispatch attempt. Members and children share
// the log; SubjectID holds either id. Append-only: the engine reads it only
// to enforce the per-kind cooldown.
type ReminderLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	SubjectID uuid.UUID `gorm:"type:uuid;index;not null"`

	Kind    string `gorm:"type:varchar(40);not null"`
	Message string `gorm:"type:text"`
	Channel string `gorm:"type:varchar(20)"`

	// Only Success=true rows count toward the cooldown, so a failed send
	// leaves the subject eligible on the next scan.
	Success      bool
	ErrorMessage string `gorm:"type:text"`

	SentAt    time.Time
	CreatedAt time.Time
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
