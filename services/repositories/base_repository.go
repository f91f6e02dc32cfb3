package repositories

import (
	"gorm.io/gorm"
)

// BaseRepository carries the gorm handle a repository works on. Inside a
// ledger invocation that handle is the invocation's transaction.
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB returns the underlying database connection
func (r *BaseRepository) DB() *gorm.DB {
	return r.db
}
