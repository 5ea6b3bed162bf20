package models

import (
	"time"
)

// Click is one recorded traversal of a short code. Rows are append-only.
type Click struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	URLID      string    `gorm:"not null;index;size:36" json:"-"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
	IPAddress  string    `gorm:"size:45" json:"ipAddress"`
	UserAgent  string    `gorm:"type:text" json:"userAgent"`
	Referer    string    `gorm:"type:text" json:"referer"`
	Country    string    `gorm:"size:100" json:"country"`
	City       string    `gorm:"size:100" json:"city"`
	Region     string    `gorm:"size:100" json:"region"`
	DeviceType string    `gorm:"size:20" json:"deviceType"`
	Browser    string    `gorm:"size:50" json:"browser"`
	OS         string    `gorm:"size:50" json:"os"`
}

func (Click) TableName() string {
	return "clicks"
}
