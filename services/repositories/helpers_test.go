package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whsper-labs/whsper_api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.KVEntry{}, &model.Balance{}, &model.Event{}))
	return db
}
