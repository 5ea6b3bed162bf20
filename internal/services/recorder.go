package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"linkstat/internal/metrics"
	"linkstat/internal/models"
	"linkstat/internal/repository"

	"github.com/mssola/user_agent"
)

const (
	unknownValue  = "unknown"
	directReferer = "direct"

	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
)

// ClickMeta is what the HTTP layer knows about a visitor. Empty fields fall
// back to defaults; Country/City/Region come from edge headers when present.
type ClickMeta struct {
	IPAddress string
	UserAgent string
	Referer   string
	Country   string
	City      string
	Region    string
}

type clickJob struct {
	code string
	meta ClickMeta
	at   time.Time
}

type RecorderOptions struct {
	MaskIPs   bool
	QueueSize int
}

// Recorder stores click events and builds reports from them.
type Recorder struct {
	store   repository.Store
	geo     *GeoIPService
	logger  *slog.Logger
	maskIPs bool
	queue   chan clickJob
	now     func() time.Time
}

func NewRecorder(store repository.Store, geo *GeoIPService, logger *slog.Logger, opts RecorderOptions) *Recorder {
	if opts.QueueSize < 1 {
		opts.QueueSize = 1
	}
	return &Recorder{
		store:   store,
		geo:     geo,
		logger:  logger,
		maskIPs: opts.MaskIPs,
		queue:   make(chan clickJob, opts.QueueSize),
		now:     time.Now,
	}
}

// RecordClick increments the counter of code and appends the enriched event
// in one transaction. An unknown code reports (false, nil).
func (r *Recorder) RecordClick(ctx context.Context, code string, meta ClickMeta) (bool, error) {
	return r.record(ctx, clickJob{code: code, meta: meta, at: r.now()})
}

func (r *Recorder) record(ctx context.Context, job clickJob) (bool, error) {
	click := r.buildClick(job.meta, job.at)

	err := r.store.IncrementAndAppendEvent(ctx, job.code, &click)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.Clicks.WithLabelValues("unknown_code").Inc()
		return false, nil
	}
	if err != nil {
		metrics.Clicks.WithLabelValues("failed").Inc()
		return false, storageError(err)
	}
	metrics.Clicks.WithLabelValues("recorded").Inc()
	return true, nil
}

// RecordClickAsync queues the click for the worker pool. It never blocks;
// when the queue is full the event is dropped.
func (r *Recorder) RecordClickAsync(code string, meta ClickMeta) {
	select {
	case r.queue <- clickJob{code: code, meta: meta, at: r.now()}:
		metrics.ClickQueueDepth.Set(float64(len(r.queue)))
	default:
		metrics.Clicks.WithLabelValues("dropped").Inc()
		r.logger.Warn("Click queue full, dropping click event", "code", code)
	}
}

// Start runs workers until ctx is done, then drains whatever is queued and
// returns once every worker has exited.
func (r *Recorder) Start(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}
	r.logger.Info("Click workers starting", "workers", workers)

	// Queued events are still written after shutdown begins.
	writeCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-r.queue:
					r.process(writeCtx, job)
				case <-ctx.Done():
					for {
						select {
						case job := <-r.queue:
							r.process(writeCtx, job)
						default:
							return
						}
					}
				}
			}
		}()
	}
	wg.Wait()
	r.logger.Info("Click workers stopped")
}

func (r *Recorder) process(ctx context.Context, job clickJob) {
	metrics.ClickQueueDepth.Set(float64(len(r.queue)))
	if _, err := r.record(ctx, job); err != nil {
		r.logger.Error("Failed to record click", "code", job.code, "error", err)
	}
}

func (r *Recorder) buildClick(meta ClickMeta, at time.Time) models.Click {
	click := models.Click{
		Timestamp: at.UTC(),
		IPAddress: orDefault(meta.IPAddress, unknownValue),
		UserAgent: orDefault(meta.UserAgent, unknownValue),
		Referer:   orDefault(meta.Referer, directReferer),
		Country:   orDefault(meta.Country, unknownValue),
		City:      orDefault(meta.City, unknownValue),
		Region:    orDefault(meta.Region, unknownValue),
	}

	click.DeviceType, click.Browser, click.OS = parseUserAgent(meta.UserAgent)

	if click.Country == unknownValue && click.IPAddress != unknownValue {
		country, region, city := r.geo.GetLocation(click.IPAddress)
		click.Country = country
		if click.Region == unknownValue {
			click.Region = region
		}
		if click.City == unknownValue {
			click.City = city
		}
	}

	if r.maskIPs {
		click.IPAddress = maskIP(click.IPAddress)
	}
	return click
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// parseUserAgent derives device type, browser and OS names.
func parseUserAgent(raw string) (device, browser, os string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DeviceDesktop, unknownValue, unknownValue
	}

	ua := user_agent.New(raw)
	browser, _ = ua.Browser()
	os = ua.OSInfo().Name

	switch {
	case ua.Bot():
		device = DeviceBot
	case strings.Contains(raw, "iPad") || strings.Contains(raw, "Tablet"):
		device = DeviceTablet
	case ua.Mobile():
		device = DeviceMobile
	default:
		device = DeviceDesktop
	}
	return device, orDefault(browser, unknownValue), orDefault(os, unknownValue)
}

// maskIP zeroes the host part: the last octet of an IPv4 address, everything
// past /48 of an IPv6 one.
func maskIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.Mask(net.CIDRMask(24, 32)).String()
	}
	return parsed.Mask(net.CIDRMask(48, 128)).String()
}

// GetStats reports on the clicks of code within period.
func (r *Recorder) GetStats(ctx context.Context, code string, period Period) (*StatsReport, error) {
	if _, ok := periodWindows[period]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	now := r.now().UTC()
	since := period.Since(now)
	from := since
	if weekAgo := Period7d.Since(now); !from.IsZero() && weekAgo.Before(from) {
		from = weekAgo
	}

	// Events before the counter: clickCount never decreases, so the report
	// can't show fewer total clicks than the events it counted.
	clicks, err := r.store.QueryEvents(ctx, repository.EventQuery{
		ShortCode: code,
		Since:     from,
	})
	if err != nil {
		return nil, storageError(err)
	}

	url, err := r.store.Get(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, code)
	}
	if err != nil {
		return nil, storageError(err)
	}

	return buildStats(url, period, since, clicks, now), nil
}

// GetOverview aggregates over every URL.
func (r *Recorder) GetOverview(ctx context.Context) (*OverviewReport, error) {
	allClicks, err := r.store.QueryEvents(ctx, repository.EventQuery{})
	if err != nil {
		return nil, storageError(err)
	}

	urls, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	since := r.now().UTC().Add(-24 * time.Hour)
	lastDay := make([]models.Click, 0)
	for _, c := range allClicks {
		if !c.Timestamp.Before(since) {
			lastDay = append(lastDay, c)
		}
	}

	return buildOverview(urls, allClicks, lastDay), nil
}
