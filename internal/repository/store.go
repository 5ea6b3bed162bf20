package repository

import (
	"context"
	"errors"
	"time"

	"linkstat/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("short code already exists")
)

// EventQuery selects clicks for QueryEvents. An empty ShortCode selects clicks
// of every URL; a zero Since means no lower bound; Limit <= 0 means no limit.
type EventQuery struct {
	ShortCode string
	Since     time.Time
	Limit     int
}

// Store is the persistence contract of the registry and the recorder.
// InsertIfAbsent and IncrementAndAppendEvent are atomic units.
type Store interface {
	// InsertIfAbsent writes url unless its short code is taken, in which case
	// it returns ErrConflict.
	InsertIfAbsent(ctx context.Context, url *models.URL) error
	// Get returns ErrNotFound for an unknown code.
	Get(ctx context.Context, code string) (*models.URL, error)
	// IncrementAndAppendEvent bumps the click counter of code and stores click
	// in one transaction. ErrNotFound for an unknown code.
	IncrementAndAppendEvent(ctx context.Context, code string, click *models.Click) error
	// DeleteCascade removes the URL and its clicks and reports whether it existed.
	DeleteCascade(ctx context.Context, code string) (bool, error)
	// ListAll returns every URL, newest first.
	ListAll(ctx context.Context) ([]models.URL, error)
	// QueryEvents returns matching clicks, newest first.
	QueryEvents(ctx context.Context, q EventQuery) ([]models.Click, error)
	Ping(ctx context.Context) error
}
