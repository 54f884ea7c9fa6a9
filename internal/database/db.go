package database

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/justsurfingit/lead-scout/internal/models"
)

// Connect opens the SQL store for driver ("postgres" or "sqlite") and
// migrates the collection table.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, eris.Errorf("database: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, eris.Wrapf(err, "database: connect %s", driver)
	}
	zap.L().Info("database connection established", zap.String("driver", driver))

	if err := db.AutoMigrate(&models.StoredCollection{}); err != nil {
		return nil, eris.Wrap(err, "database: migrate")
	}
	return db, nil
}

// KVStore keeps one row per collection key in stored_collections.
type KVStore struct {
	db *gorm.DB
}

func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row models.StoredCollection
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrapf(err, "database: get %s", key)
	}
	return []byte(row.Value), true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	row := models.StoredCollection{Key: key, Value: string(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return eris.Wrapf(err, "database: set %s", key)
	}
	return nil
}
