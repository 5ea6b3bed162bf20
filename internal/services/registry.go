package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"linkstat/internal/metrics"
	"linkstat/internal/models"
	"linkstat/internal/repository"
	"linkstat/pkg/utils"

	"github.com/google/uuid"
)

const (
	generatedCodeLength = 7
	maxGenerateAttempts = 10
)

// Codes that would shadow a top-level route.
var reservedCodes = map[string]struct{}{
	"api":     {},
	"health":  {},
	"metrics": {},
}

type CreateInput struct {
	OriginalURL string
	CustomCode  string
	IPAddress   string
}

// Registry owns the lifecycle of short codes.
type Registry struct {
	store  repository.Store
	cache  *repository.URLCache
	audit  *AuditService
	logger *slog.Logger

	generateCode func(length int) (string, error)
	now          func() time.Time
}

func NewRegistry(store repository.Store, cache *repository.URLCache, audit *AuditService, logger *slog.Logger) *Registry {
	return &Registry{
		store:        store,
		cache:        cache,
		audit:        audit,
		logger:       logger,
		generateCode: utils.GenerateShortCode,
		now:          time.Now,
	}
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidURL)
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

func validateCustomCode(code string) error {
	if !utils.IsValidCustomCode(code) {
		return fmt.Errorf("%w: must be %d-%d characters of letters, digits, '-' or '_'",
			ErrInvalidCustomCode, utils.MinCustomCodeLength, utils.MaxCustomCodeLength)
	}
	if _, reserved := reservedCodes[strings.ToLower(code)]; reserved {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidCustomCode, code)
	}
	return nil
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// Create registers a new short code for in.OriginalURL. With a custom code the
// insert either succeeds or fails with ErrCodeAlreadyExists; otherwise random
// codes are tried until one inserts or the attempts run out.
func (r *Registry) Create(ctx context.Context, in CreateInput) (*models.URL, error) {
	if err := ValidateURL(in.OriginalURL); err != nil {
		return nil, err
	}

	record := &models.URL{
		ID:          uuid.NewString(),
		OriginalURL: in.OriginalURL,
		CreatedAt:   r.now().UTC(),
	}

	source := "generated"
	if in.CustomCode != "" {
		if err := validateCustomCode(in.CustomCode); err != nil {
			return nil, err
		}
		record.ShortCode = in.CustomCode
		if err := r.store.InsertIfAbsent(ctx, record); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, fmt.Errorf("%w: %q", ErrCodeAlreadyExists, in.CustomCode)
			}
			return nil, storageError(err)
		}
		source = "custom"
	} else if err := r.insertGenerated(ctx, record); err != nil {
		return nil, err
	}

	metrics.URLsCreated.WithLabelValues(source).Inc()
	r.logger.Info("Short URL created", "code", record.ShortCode, "source", source)
	r.audit.LogAction(ActionCreateLink, record.ShortCode, map[string]string{"original_url": record.OriginalURL}, in.IPAddress)

	return record, nil
}

func (r *Registry) insertGenerated(ctx context.Context, record *models.URL) error {
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		code, err := r.generateCode(generatedCodeLength)
		if err != nil {
			return fmt.Errorf("generate short code: %w", err)
		}
		record.ShortCode = code

		err = r.store.InsertIfAbsent(ctx, record)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return storageError(err)
		}
		metrics.CodeCollisions.Inc()
		r.logger.Debug("Generated short code collided", "code", code, "attempt", attempt)
	}

	r.logger.Error("Short code generation exhausted", "attempts", maxGenerateAttempts)
	return fmt.Errorf("%w after %d attempts", ErrCodeGenerationExhausted, maxGenerateAttempts)
}

// Lookup reads the URL straight from storage.
func (r *Registry) Lookup(ctx context.Context, code string) (*models.URL, error) {
	record, err := r.store.Get(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, code)
	}
	if err != nil {
		return nil, storageError(err)
	}
	return record, nil
}

// Delete removes the URL and its clicks. It reports false for an unknown code.
func (r *Registry) Delete(ctx context.Context, code string, ip string) (bool, error) {
	deleted, err := r.store.DeleteCascade(ctx, code)
	if err != nil {
		return false, storageError(err)
	}
	if !deleted {
		return false, nil
	}

	if err := r.cache.Invalidate(ctx, code); err != nil {
		r.logger.Warn("Failed to invalidate cached url", "code", code, "error", err)
	}
	r.logger.Info("Short URL deleted", "code", code)
	r.audit.LogAction(ActionDeleteLink, code, nil, ip)
	return true, nil
}

func (r *Registry) ListAll(ctx context.Context) ([]models.URL, error) {
	urls, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return urls, nil
}

// Resolve returns the destination of code for a redirect, trying the cache
// before storage. Cache failures count as misses.
func (r *Registry) Resolve(ctx context.Context, code string) (string, error) {
	cached, hit, err := r.cache.Get(ctx, code)
	if err != nil {
		r.logger.Warn("Cache lookup failed", "code", code, "error", err)
	}
	if hit {
		metrics.Redirects.WithLabelValues("found", "hit").Inc()
		return cached, nil
	}

	record, err := r.store.Get(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.Redirects.WithLabelValues("not_found", "miss").Inc()
		return "", fmt.Errorf("%w: %q", ErrNotFound, code)
	}
	if err != nil {
		metrics.Redirects.WithLabelValues("error", "miss").Inc()
		return "", storageError(err)
	}

	if err := r.cache.Set(ctx, code, record.OriginalURL); err != nil {
		r.logger.Warn("Failed to cache url", "code", code, "error", err)
	}
	metrics.Redirects.WithLabelValues("found", "miss").Inc()
	return record.OriginalURL, nil
}

// Ping checks storage and, when configured, the cache.
func (r *Registry) Ping(ctx context.Context) (dbErr, cacheErr error) {
	return r.store.Ping(ctx), r.cache.Ping(ctx)
}

func (r *Registry) CacheEnabled() bool {
	return r.cache.Enabled()
}
