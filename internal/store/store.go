// Package store persists gateway audit logs. The façade itself is
// stateless; the identity backend owns users and tokens, so the only
// thing written locally is the audit trail.
package store

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/go-authgate/authfront/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// CreateAuditLog writes one audit log entry
func (s *Store) CreateAuditLog(entry *models.AuditLog) error {
	return s.db.Create(entry).Error
}

// CreateAuditLogBatch writes a batch of audit log entries in one insert
func (s *Store) CreateAuditLogBatch(entries []*models.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.Create(entries).Error
}

// GetRecentAuditLogs returns up to limit entries, newest first
func (s *Store) GetRecentAuditLogs(limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []models.AuditLog
	err := s.db.Order("event_time DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// DeleteOldAuditLogs deletes entries older than cutoff and returns the
// number removed
func (s *Store) DeleteOldAuditLogs(cutoff time.Time) (int64, error) {
	result := s.db.Where("event_time < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
