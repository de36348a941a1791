package domain

import (
	"context"
	"errors"

	"github.com/megomed/marketplace/pkg/db/pagination"
)

type RecordRequest struct {
	Action     string
	TargetType string
	TargetID   string
	Result     string
	Message    string
	Metadata   map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	TargetType string
	TargetID   string
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

// Service records and lists the audit trail of the calling session.
type Service interface {
	Record(ctx context.Context, req RecordRequest) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)
