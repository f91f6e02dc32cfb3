package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRepository is the durable keyed store every domain record lives in.
type KVRepository struct {
	BaseRepository
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Get decodes the value stored under key into dest. It reports false, and
// leaves dest untouched, when the key is absent.
func (r *KVRepository) Get(key model.DataKey, dest interface{}) (bool, error) {
	var entry model.KVEntry
	err := r.db.Where("storage_key = ?", key.StorageKey()).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := shared.JSON().Unmarshal(entry.Value, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key.StorageKey(), err)
	}
	return true, nil
}

func (r *KVRepository) Set(key model.DataKey, value interface{}) error {
	data, err := shared.JSON().Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key.StorageKey(), err)
	}

	entry := model.KVEntry{
		StorageKey: key.StorageKey(),
		Value:      data,
		UpdatedAt:  time.Now(),
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *KVRepository) Has(key model.DataKey) (bool, error) {
	var count int64
	err := r.db.Model(&model.KVEntry{}).Where("storage_key = ?", key.StorageKey()).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *KVRepository) Remove(key model.DataKey) error {
	return r.db.Where("storage_key = ?", key.StorageKey()).Delete(&model.KVEntry{}).Error
}
