package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"kokorod/internal/platform/errors"
)

// UsageRepository persists and queries synthesis usage history.
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Record stores a finished request.
func (r *UsageRepository) Record(ctx context.Context, rec *UsageRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "usage.record", "save usage record", err)
	}
	return nil
}

// Recent returns the newest records up to limit.
func (r *UsageRepository) Recent(ctx context.Context, limit int) ([]UsageRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []UsageRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "usage.recent", "list usage records", err)
	}
	return records, nil
}

// UsageTotals aggregates lifetime usage.
type UsageTotals struct {
	Requests int64 `json:"requests"`
	Failed   int64 `json:"failed"`
	AudioMs  int64 `json:"audio_ms"`
}

// Totals aggregates request counts and synthesized audio duration.
func (r *UsageRepository) Totals(ctx context.Context) (UsageTotals, error) {
	var totals UsageTotals

	if err := r.db.WithContext(ctx).Model(&UsageRecord{}).Count(&totals.Requests).Error; err != nil {
		return totals, errors.Wrap(errors.KindStorage, "usage.totals", "count requests", err)
	}
	if err := r.db.WithContext(ctx).Model(&UsageRecord{}).
		Where("status = ?", StatusFailed).Count(&totals.Failed).Error; err != nil {
		return totals, errors.Wrap(errors.KindStorage, "usage.totals", "count failures", err)
	}

	var audio struct{ Total int64 }
	if err := r.db.WithContext(ctx).Model(&UsageRecord{}).
		Select("COALESCE(SUM(audio_ms), 0) AS total").Scan(&audio).Error; err != nil {
		return totals, errors.Wrap(errors.KindStorage, "usage.totals", "sum audio duration", err)
	}
	totals.AudioMs = audio.Total

	return totals, nil
}

// PurgeOlderThan deletes records created before the cutoff and reports
// how many were removed.
func (r *UsageRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&UsageRecord{})
	if res.Error != nil {
		return 0, errors.Wrap(errors.KindStorage, "usage.purge", "delete old records", res.Error)
	}
	return res.RowsAffected, nil
}
