package domain

import (
	"context"
	"errors"

	"github.com/megomed/marketplace/internal/apiresponse"
	"github.com/megomed/marketplace/internal/feedback"
	"github.com/megomed/marketplace/internal/role"
	"github.com/megomed/marketplace/pkg/listing"
)

type ListInvoiceRequest struct {
	SortBy   string
	Order    string
	Page     int
	PageSize int
	From     string
	To       string
}

type ListInvoiceResponse struct {
	listing.PageInfo
	Invoices []InvoiceView `json:"invoices"`
}

type ResolveExtendRequest struct {
	InvoiceID string
	Action    string
}

type PayRequest struct {
	InvoiceID string
}

// Service runs the invoice workflows for the caller found in the context.
type Service interface {
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	ResolveExtendRequest(ctx context.Context, req ResolveExtendRequest) (feedback.Outcome, error)
	Pay(ctx context.Context, req PayRequest) (feedback.Outcome, error)
}

// Backend is the subset of the marketplace REST API the invoice workflows use.
type Backend interface {
	ListInvoices(ctx context.Context, r role.Role) ([]Invoice, error)
	ApproveExtendRequest(ctx context.Context, invoiceID string, action ExtendAction) (apiresponse.Payload, error)
	AcceptRespondInvoice(ctx context.Context, invoiceID string) (apiresponse.Payload, error)
}

const (
	SortByCreatedAt    = "created_at"
	SortByDeliveryDate = "delivery_date"
	SortByAmount       = "amount"
	SortByStatus       = "status"
)

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrActionNotAllowed = errors.New("action_not_allowed")
	ErrNoExtendRequest  = errors.New("no_extend_request")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvalidSortField = errors.New("invalid_sort_field")
)
