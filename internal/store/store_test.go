package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-authgate/authfront/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("sqlite", ":memory:")
	require.NoError(t, err)
	return s
}

func newEntry(action string, eventTime time.Time) *models.AuditLog {
	return &models.AuditLog{
		ID:        uuid.New().String(),
		EventType: models.EventLoginForwarded,
		EventTime: eventTime,
		Severity:  models.SeverityInfo,
		Action:    action,
		Success:   true,
		CreatedAt: time.Now(),
	}
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := New("oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestCreateAndReadBack(t *testing.T) {
	s := newTestStore(t)

	entry := newEntry("login", time.Now())
	entry.Details = models.AuditDetails{"status": 201}
	require.NoError(t, s.CreateAuditLog(entry))

	logs, err := s.GetRecentAuditLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "login", logs[0].Action)
	assert.Equal(t, models.EventLoginForwarded, logs[0].EventType)
}

func TestBatchInsert(t *testing.T) {
	s := newTestStore(t)

	batch := []*models.AuditLog{
		newEntry("login", time.Now().Add(-2*time.Minute)),
		newEntry("logout", time.Now().Add(-1*time.Minute)),
		newEntry("create_user", time.Now()),
	}
	require.NoError(t, s.CreateAuditLogBatch(batch))

	logs, err := s.GetRecentAuditLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	// Newest first.
	assert.Equal(t, "create_user", logs[0].Action)
}

func TestEmptyBatchIsNoop(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.CreateAuditLogBatch(nil))
}

func TestDeleteOldAuditLogs(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateAuditLog(newEntry("old", time.Now().Add(-48*time.Hour))))
	require.NoError(t, s.CreateAuditLog(newEntry("recent", time.Now())))

	deleted, err := s.DeleteOldAuditLogs(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	logs, err := s.GetRecentAuditLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "recent", logs[0].Action)
}
