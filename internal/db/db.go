package db

import (
	"errors"
	"fmt"
	"time"

	"akasha/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		// Only errors; slow-query warnings are noise for a CLI
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Subscription{})
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// SaveSubscription inserts or replaces the subscription with the same name.
func SaveSubscription(db *gorm.DB, sub *model.Subscription) error {
	if sub.FetchedAt.IsZero() {
		sub.FetchedAt = time.Now()
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"source", "payload", "fetched_at",
			"usage_upload", "usage_download", "usage_total", "usage_expire",
		}),
	}).Create(sub)
	if result.Error != nil {
		return fmt.Errorf("failed to save subscription %q: %w", sub.Name, result.Error)
	}
	return nil
}

// LoadSubscriptions returns the named subscriptions, or all when names is
// empty, ordered by name.
func LoadSubscriptions(db *gorm.DB, names []string) ([]model.Subscription, error) {
	var subs []model.Subscription
	query := db.Order("name")
	if len(names) > 0 {
		query = query.Where("name IN ?", names)
	}
	if err := query.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	return subs, nil
}

// GetSubscription returns the subscription with the given name.
func GetSubscription(db *gorm.DB, name string) (*model.Subscription, error) {
	var sub model.Subscription
	err := db.Where("name = ?", name).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("subscription %q has not been fetched", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription %q: %w", name, err)
	}
	return &sub, nil
}
