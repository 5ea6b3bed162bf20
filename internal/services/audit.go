package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"linkstat/internal/models"

	"gorm.io/gorm"
)

const (
	ActionCreateLink = "CREATE_LINK"
	ActionDeleteLink = "DELETE_LINK"
)

// AuditService writes audit entries from a background worker so callers
// never wait on the insert.
type AuditService struct {
	db      *gorm.DB
	logger  *slog.Logger
	entries chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		entries: make(chan models.AuditLog, 100),
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.entries:
			s.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-s.entries:
					s.write(entry)
				default:
					s.logger.Info("Audit worker stopping")
					return
				}
			}
		}
	}
}

func (s *AuditService) write(entry models.AuditLog) {
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
	}
}

// LogAction queues an audit entry; it is dropped when the queue is full.
func (s *AuditService) LogAction(action, entityID string, details interface{}, ip string) {
	if s == nil {
		return
	}
	var detailText string
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailText = string(b)
		}
	}

	entry := models.AuditLog{
		Action:    action,
		EntityID:  entityID,
		Details:   detailText,
		IPAddress: ip,
		Timestamp: time.Now().UTC(),
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", action)
	}
}
