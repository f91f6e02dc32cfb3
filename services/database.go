package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const DATABASE_SVC = "database_svc"

// Database is implemented by both the sqlite and postgres services; exactly
// one of them is registered, selected by DB_DRIVER.
type Database interface {
	Db() *gorm.DB
}

func migrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.KVEntry{},
		&model.Balance{},
		&model.Event{},
	)
}

// HandleError logs a storage failure with its category and wraps it.
// Application errors pass through untouched.
func HandleError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.GetAppError(err); ok {
		return err
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "no such table") {
			statusCode = http.StatusInternalServerError
			errorType = "SCHEMA_ERROR"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}
