package handlers

import (
	"log/slog"
	"time"

	"linkstat/internal/config"
	"linkstat/internal/services"
)

type Handler struct {
	cfg       config.Config
	logger    *slog.Logger
	registry  *services.Registry
	recorder  *services.Recorder
	qrService *services.QRService
	startedAt time.Time
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	registry *services.Registry,
	recorder *services.Recorder,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		recorder:  recorder,
		qrService: qrService,
		startedAt: time.Now(),
	}
}
