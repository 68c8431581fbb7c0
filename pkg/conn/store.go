package conn

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/gofrs/flock"
	"github.com/masteryyh/storefront/pkg/models"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const lockRetryDelay = 50 * time.Millisecond

// LocalStore is the client's persistent key/value store. Values are JSON
// documents; writers from several processes serialize on a lock file.
type LocalStore struct {
	db   *gorm.DB
	lock *flock.Flock
}

func OpenLocalStore(ctx context.Context, dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	dbConn, err := gorm.Open(sqlite.Open(filepath.Join(dir, "storefront.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := dbConn.WithContext(ctx).AutoMigrate(&models.LocalItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return &LocalStore{
		db:   dbConn,
		lock: flock.New(filepath.Join(dir, "storefront.lock")),
	}, nil
}

func (s *LocalStore) withLock(ctx context.Context, fn func() error) error {
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock local store: %w", err)
	}
	if !locked {
		return errors.New("failed to lock local store")
	}
	defer s.lock.Unlock()
	return fn()
}

// Get decodes the value stored under key into out. It reports false when the
// key is absent.
func (s *LocalStore) Get(ctx context.Context, key string, out any) (bool, error) {
	var item models.LocalItem
	err := s.db.WithContext(ctx).Where(map[string]any{"key": key}).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(item.Value, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *LocalStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return s.withLock(ctx, func() error {
		item := &models.LocalItem{Key: key, Value: datatypes.JSON(data)}
		return s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(item).Error
	})
}

func (s *LocalStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.withLock(ctx, func() error {
		return s.db.WithContext(ctx).Where(map[string]any{"key": keys}).Delete(&models.LocalItem{}).Error
	})
}

func (s *LocalStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
