// Package domain describes the audit trail of workflow attempts.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TargetInvoice      = "invoice"
	TargetSubscription = "subscription"
)

// AuditLog is one workflow attempt, whatever its result.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ActorRole  string            `gorm:"type:varchar(32);not null" json:"actor_role"`
	ActorID    string            `gorm:"type:varchar(64);not null;index" json:"actor_id"`
	Action     string            `gorm:"type:varchar(128);not null;index" json:"action"`
	TargetType string            `gorm:"type:varchar(32);not null;index:idx_audit_target" json:"target_type"`
	TargetID   string            `gorm:"type:varchar(128);not null;index:idx_audit_target" json:"target_id"`
	Result     string            `gorm:"type:varchar(32);not null" json:"result"`
	Message    string            `gorm:"type:text" json:"message,omitempty"`
	RequestID  *string           `gorm:"type:varchar(64)" json:"request_id,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	ActorID    string
	Action     string
	TargetType string
	TargetID   string
	Cursor     *AuditCursor
	Limit      int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditLog, error)
}
