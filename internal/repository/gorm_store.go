package repository

import (
	"context"
	"errors"
	"fmt"

	"linkstat/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	if db == nil {
		panic("nil *gorm.DB passed to NewGormStore")
	}
	return &GormStore{db: db}
}

func (s *GormStore) InsertIfAbsent(ctx context.Context, url *models.URL) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "short_code"}},
			DoNothing: true,
		}).
		Create(url)
	if res.Error != nil {
		return fmt.Errorf("failed to insert url: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, code string) (*models.URL, error) {
	var url models.URL
	err := s.db.WithContext(ctx).Where("short_code = ?", code).Take(&url).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get url %q: %w", code, err)
	}
	return &url, nil
}

func (s *GormStore) IncrementAndAppendEvent(ctx context.Context, code string, click *models.Click) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.URL{}).
			Where("short_code = ?", code).
			UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("failed to increment clicks: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var url models.URL
		if err := tx.Select("id").Where("short_code = ?", code).Take(&url).Error; err != nil {
			return fmt.Errorf("failed to load url id: %w", err)
		}

		click.URLID = url.ID
		if err := tx.Create(click).Error; err != nil {
			return fmt.Errorf("failed to create click: %w", err)
		}
		return nil
	})
}

func (s *GormStore) DeleteCascade(ctx context.Context, code string) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var url models.URL
		err := tx.Select("id").Where("short_code = ?", code).Take(&url).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("url_id = ?", url.ID).Delete(&models.Click{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", url.ID).Delete(&models.URL{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete url %q: %w", code, err)
	}
	return deleted, nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]models.URL, error) {
	var urls []models.URL
	if err := s.db.WithContext(ctx).Order("created_at desc").Order("id").Find(&urls).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch urls: %w", err)
	}
	return urls, nil
}

func (s *GormStore) QueryEvents(ctx context.Context, q EventQuery) ([]models.Click, error) {
	query := s.db.WithContext(ctx).Model(&models.Click{}).Select("clicks.*")
	if q.ShortCode != "" {
		query = query.Joins("JOIN urls ON urls.id = clicks.url_id").Where("urls.short_code = ?", q.ShortCode)
	}
	if !q.Since.IsZero() {
		query = query.Where("clicks.timestamp >= ?", q.Since)
	}
	query = query.Order("clicks.timestamp desc").Order("clicks.id desc")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var clicks []models.Click
	if err := query.Find(&clicks).Error; err != nil {
		return nil, fmt.Errorf("failed to query clicks: %w", err)
	}
	return clicks, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
