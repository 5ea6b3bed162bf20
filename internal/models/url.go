package models

import (
	"time"
)

// URL maps a short code to its original URL. ClickCount is the only field
// that changes after creation.
type URL struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ShortCode   string    `gorm:"uniqueIndex;not null;size:10" json:"shortCode"`
	OriginalURL string    `gorm:"not null;type:text" json:"originalUrl"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
	ClickCount  int64     `gorm:"not null;default:0" json:"clickCount"`

	Clicks []Click `gorm:"foreignKey:URLID;constraint:OnDelete:CASCADE" json:"-"`
}

func (URL) TableName() string {
	return "urls"
}
