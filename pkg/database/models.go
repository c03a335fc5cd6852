package database

import (
	"time"

	"gorm.io/gorm"
)

// Reception is one decoded transmission as stored in the reception log.
// Raw holds the recovered payload as lowercase hex; the payload is
// opaque at this layer.
type Reception struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Model       string    `gorm:"index;size:50;not null" json:"model"`
	Raw         string    `gorm:"size:512;not null" json:"raw"`
	MIC         string    `gorm:"size:10;not null" json:"mic"`
	FrequencyHz uint32    `json:"frequency_hz"`
	ReceivedAt  time.Time `gorm:"index;not null" json:"received_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Reception
func (Reception) TableName() string {
	return "receptions"
}

// BeforeCreate hook to ensure timestamps are set
func (r *Reception) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.ReceivedAt.IsZero() {
		r.ReceivedAt = time.Now()
	}
	return nil
}

// PayloadBytes returns the payload length in bytes
func (r *Reception) PayloadBytes() int {
	return len(r.Raw) / 2
}
