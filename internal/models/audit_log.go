package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE_LINK, DELETE_LINK
	EntityID  string    `gorm:"size:50" json:"entityId"`        // short code
	Details   string    `gorm:"type:text" json:"details"`       // JSON
	IPAddress string    `gorm:"size:45" json:"ipAddress"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}
