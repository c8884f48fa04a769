package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BulkMessageLog records each bulk announcement for the history view.
type BulkMessageLog struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Message        string `gorm:"type:text;not null"`
	RecipientCount int    `gorm:"not null"`
	Kind           string `gorm:"type:varchar(40);not null"`
	SentBy         string `gorm:"default:'System'"`

	SentAt    time.Time
	CreatedAt time.Time
}

func (b *BulkMessageLog) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
