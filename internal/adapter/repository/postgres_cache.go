package repository

import (
	"context"
	"errors"
	"time"

	"github-skill-scout/internal/common"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// CacheEntry is one row of the persistent cache.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     []byte    `gorm:"type:bytea;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}

// PostgresCache implements port.Cache on a Postgres table.
type PostgresCache struct {
	db      *gorm.DB
	nowFunc func() time.Time
}

// NewPostgresCache connects and migrates the cache table.
func NewPostgresCache(dsn string) (*PostgresCache, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "failed to connect to database", err)
	}

	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "failed to migrate cache table", err)
	}
	return NewPostgresCacheWithDB(db), nil
}

// NewPostgresCacheWithDB wraps an open connection. The table must already exist.
func NewPostgresCacheWithDB(db *gorm.DB) *PostgresCache {
	return &PostgresCache{db: db, nowFunc: time.Now}
}

// Get returns the live value stored under key.
func (c *PostgresCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry CacheEntry
	err := c.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, c.nowFunc()).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, common.WrapError(common.ErrCodeDatabase, "cache lookup failed", err)
	}
	return entry.Value, true, nil
}

// Set upserts value for ttl. A non-positive ttl deletes the key.
func (c *PostgresCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		err := c.db.WithContext(ctx).Where("key = ?", key).Delete(&CacheEntry{}).Error
		if err != nil {
			return common.WrapError(common.ErrCodeDatabase, "cache delete failed", err)
		}
		return nil
	}

	now := c.nowFunc()
	entry := CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: now.Add(ttl),
		UpdatedAt: now,
	}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return common.WrapError(common.ErrCodeDatabase, "cache write failed", err)
	}
	return nil
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (c *PostgresCache) PurgeExpired(ctx context.Context) (int64, error) {
	result := c.db.WithContext(ctx).Where("expires_at <= ?", c.nowFunc()).Delete(&CacheEntry{})
	if result.Error != nil {
		return 0, common.WrapError(common.ErrCodeDatabase, "cache purge failed", result.Error)
	}
	return result.RowsAffected, nil
}
