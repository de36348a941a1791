// Package domain holds the invoice model as the marketplace backend reports it
// and the pure rules that derive presentation and available actions from it.
package domain

import (
	"strings"
	"time"

	"github.com/megomed/marketplace/pkg/listing"
	"github.com/shopspring/decimal"
)

// Status is the backend-reported invoice lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDelivered Status = "delivered"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

// PaymentStatus is independent of Status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Invoice mirrors the backend JSON record.
type Invoice struct {
	ID              string          `json:"id"`
	Status          Status          `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	ExtendDate      *string         `json:"extendDate"`
	DeliveryMessage *string         `json:"deliveryMessage"`
	Title           string          `json:"title,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	DeliveryDate    string          `json:"deliveryDate,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
}

// HasExtendRequest reports an outstanding extension awaiting the client.
func (i Invoice) HasExtendRequest() bool {
	return i.ExtendDate != nil && strings.TrimSpace(*i.ExtendDate) != ""
}

func (i Invoice) CreatedTime() (time.Time, bool) {
	return listing.ParseTime(i.CreatedAt)
}

func (i Invoice) DeliveryTime() (time.Time, bool) {
	return listing.ParseTime(i.DeliveryDate)
}

func (i Invoice) IsPaid() bool {
	return strings.EqualFold(string(i.PaymentStatus), string(PaymentStatusPaid))
}
