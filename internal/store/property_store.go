package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/feral-file/ff-smartdial/internal/store/schema"
)

// getProperty returns the value stored under key and whether it exists
func getProperty(ctx context.Context, db *gorm.DB, key string) (string, bool, error) {
	var prop schema.Property
	err := db.WithContext(ctx).Where(&schema.Property{Key: key}).First(&prop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get property %s: %w", key, err)
	}

	return prop.Value, true, nil
}

// setProperty stores value under key, replacing any previous value
func setProperty(ctx context.Context, db *gorm.DB, key, value string) error {
	prop := schema.Property{
		Key:   key,
		Value: value,
	}

	err := db.WithContext(ctx).Save(&prop).Error
	if err != nil {
		return fmt.Errorf("failed to set property %s: %w", key, err)
	}

	return nil
}

// getIntProperty reads an integer property, returning 0 when it does not exist
func getIntProperty(ctx context.Context, db *gorm.DB, key string) (int64, bool, error) {
	value, found, err := getProperty(ctx, db, key)
	if err != nil || !found {
		return 0, found, err
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("failed to parse property %s: %w", key, err)
	}

	return n, true, nil
}

func setIntProperty(ctx context.Context, db *gorm.DB, key string, value int64) error {
	return setProperty(ctx, db, key, strconv.FormatInt(value, 10))
}

// ReadWatermark returns the last persisted sync watermark
func (s *sqlStore) ReadWatermark(ctx context.Context) (int64, error) {
	watermark, _, err := getIntProperty(ctx, s.db, schema.PropertyKeySyncWatermark)
	if err != nil {
		return 0, err
	}
	return watermark, nil
}

// WriteWatermark persists the sync watermark
func (s *sqlStore) WriteWatermark(ctx context.Context, watermark int64) error {
	return setIntProperty(ctx, s.db, schema.PropertyKeySyncWatermark, watermark)
}
