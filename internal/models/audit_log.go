package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of audit event
type EventType string

const (
	// Token events
	EventLoginForwarded EventType = "LOGIN_FORWARDED"
	EventLogout         EventType = "LOGOUT"
	EventTokenChecked   EventType = "TOKEN_CHECKED"

	// User events
	EventUserCreated     EventType = "USER_CREATED"
	EventUserModified    EventType = "USER_MODIFIED"
	EventUserDeleted     EventType = "USER_DELETED"
	EventPasswordChanged EventType = "PASSWORD_CHANGED"
	EventRoleAssigned    EventType = "ROLE_ASSIGNED"

	// Local policy events
	EventValidationRejected EventType = "VALIDATION_REJECTED"
)

// EventSeverity represents the severity level of an audit event
type EventSeverity string

const (
	SeverityInfo    EventSeverity = "INFO"
	SeverityWarning EventSeverity = "WARNING"
	SeverityError   EventSeverity = "ERROR"
)

// AuditDetails stores additional event-specific information as JSON
type AuditDetails map[string]any

// Value implements driver.Valuer for database storage
func (d AuditDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for database retrieval
func (d *AuditDetails) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into AuditDetails", value)
		}
	}

	return json.Unmarshal(bytes, d)
}

// AuditLog records one gateway operation. Token and password values are
// masked before an entry is persisted.
type AuditLog struct {
	ID            string        `gorm:"primaryKey" json:"id"`
	EventType     EventType     `gorm:"index;not null" json:"event_type"`
	EventTime     time.Time     `gorm:"index;not null" json:"event_time"`
	Severity      EventSeverity `gorm:"index;not null" json:"severity"`
	ActorIP       string        `gorm:"index" json:"actor_ip"`
	Username      string        `gorm:"index" json:"username,omitempty"`
	UserID        string        `gorm:"index" json:"user_id,omitempty"`
	Action        string        `gorm:"not null" json:"action"`
	BackendStatus int           `json:"backend_status"`
	Success       bool          `gorm:"index" json:"success"`
	Details       AuditDetails  `gorm:"type:text" json:"details,omitempty"`
	RequestPath   string        `json:"request_path"`
	RequestMethod string        `json:"request_method"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TableName overrides the default table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
