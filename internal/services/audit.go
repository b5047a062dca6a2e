package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-authgate/authfront/internal/models"
	"github.com/go-authgate/authfront/internal/store"
)

// AuditEntry is the data needed to record one gateway operation.
type AuditEntry struct {
	EventType     models.EventType
	Severity      models.EventSeverity
	Username      string
	UserID        string
	ActorIP       string
	Action        string
	BackendStatus int
	Success       bool
	Details       models.AuditDetails
	RequestPath   string
	RequestMethod string
}

// AuditService records gateway operations asynchronously. Entries are
// batched and flushed by a background worker; a full buffer drops the
// event rather than blocking the request path.
type AuditService struct {
	store   *store.Store
	enabled bool

	logChan chan *models.AuditLog

	batchBuffer []*models.AuditLog
	batchMutex  sync.Mutex
	batchTicker *time.Ticker

	wg         sync.WaitGroup
	shutdownCh chan struct{}
}

// NewAuditService creates a new audit service
func NewAuditService(s *store.Store, enabled bool, bufferSize int) *AuditService {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	service := &AuditService{
		store:       s,
		enabled:     enabled,
		logChan:     make(chan *models.AuditLog, bufferSize),
		batchBuffer: make([]*models.AuditLog, 0, 100),
		batchTicker: time.NewTicker(1 * time.Second),
		shutdownCh:  make(chan struct{}),
	}

	if enabled {
		service.wg.Add(1)
		go service.worker()
		log.Printf("[Audit] service started with buffer size %d", bufferSize)
	} else {
		log.Println("[Audit] service is disabled")
	}

	return service
}

func (s *AuditService) worker() {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.logChan:
			s.addToBatch(entry)

		case <-s.batchTicker.C:
			s.flushBatch()

		case <-s.shutdownCh:
			// Drain anything still queued before the final flush.
			for {
				select {
				case entry := <-s.logChan:
					s.addToBatch(entry)
				default:
					s.flushBatch()
					return
				}
			}
		}
	}
}

func (s *AuditService) addToBatch(entry *models.AuditLog) {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()

	s.batchBuffer = append(s.batchBuffer, entry)

	if len(s.batchBuffer) >= 100 {
		s.flushBatchUnsafe()
	}
}

func (s *AuditService) flushBatch() {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()
	s.flushBatchUnsafe()
}

// flushBatchUnsafe flushes the batch buffer; caller must hold the lock.
func (s *AuditService) flushBatchUnsafe() {
	if len(s.batchBuffer) == 0 {
		return
	}

	toWrite := make([]*models.AuditLog, len(s.batchBuffer))
	copy(toWrite, s.batchBuffer)
	s.batchBuffer = s.batchBuffer[:0]

	if err := s.store.CreateAuditLogBatch(toWrite); err != nil {
		log.Printf("[Audit] failed to write batch: %v", err)
	}
}

// Log records an audit entry asynchronously. Safe to call from any
// goroutine; never blocks the request path.
func (s *AuditService) Log(entry AuditEntry) {
	if !s.enabled {
		return
	}

	auditLog := &models.AuditLog{
		ID:            uuid.New().String(),
		EventType:     entry.EventType,
		EventTime:     time.Now(),
		Severity:      entry.Severity,
		ActorIP:       entry.ActorIP,
		Username:      entry.Username,
		UserID:        entry.UserID,
		Action:        entry.Action,
		BackendStatus: entry.BackendStatus,
		Success:       entry.Success,
		Details:       maskSensitiveDetails(entry.Details),
		RequestPath:   entry.RequestPath,
		RequestMethod: entry.RequestMethod,
		CreatedAt:     time.Now(),
	}

	select {
	case s.logChan <- auditLog:
	default:
		log.Printf("[Audit] buffer full, dropping event: %s", entry.Action)
	}
}

// CleanupOldLogs deletes audit logs older than the retention period and
// returns the number of deleted rows.
func (s *AuditService) CleanupOldLogs(retention time.Duration) (int64, error) {
	if !s.enabled || s.store == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-retention)
	return s.store.DeleteOldAuditLogs(cutoff)
}

// Shutdown flushes pending entries and stops the worker.
func (s *AuditService) Shutdown(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	s.batchTicker.Stop()
	close(s.shutdownCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[Audit] service shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit service shutdown timeout: %w", ctx.Err())
	}
}

// maskSensitiveDetails masks credential material in audit details. The
// gateway never persists tokens or passwords in cleartext.
func maskSensitiveDetails(details models.AuditDetails) models.AuditDetails {
	if details == nil {
		return details
	}

	masked := make(models.AuditDetails, len(details))
	for key, value := range details {
		if isSensitiveField(key) {
			masked[key] = "***REDACTED***"
			continue
		}
		masked[key] = value
	}

	return masked
}

func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	sensitiveFields := []string{
		"password",
		"token",
		"secret",
		"credential",
	}

	for _, field := range sensitiveFields {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}
