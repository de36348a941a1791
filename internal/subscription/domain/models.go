// Package domain contains the subscription plan model and the rules that
// classify a plan's window and gate its renew button.
package domain

import (
	"bytes"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type PlanType string

const (
	PlanMonth PlanType = "month"
	PlanYear  PlanType = "year"
)

// Subscription mirrors the backend JSON record.
type Subscription struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Type            PlanType        `json:"type"`
	Price           decimal.Decimal `json:"price"`
	TenderCount     int             `json:"tenderCount"`
	TakeTenderCount int             `json:"takeTenderCount"`
	JobCount        int             `json:"jobCount"`
	TakeJobCount    int             `json:"takeJobCount"`
	Status          string          `json:"status"`
	EndDate         RawDate         `json:"endDate"`
}

// RawDate keeps the wire value of a date untouched so that null, missing and
// malformed values survive decoding. Non-string JSON is kept as its raw text.
type RawDate string

func (d *RawDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = RawDate(s)
		return nil
	}
	*d = RawDate(data)
	return nil
}

func (d RawDate) MarshalJSON() ([]byte, error) {
	if strings.TrimSpace(string(d)) == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// Usage is the allowance left on a plan.
type Usage struct {
	TendersRemaining int `json:"tenders_remaining"`
	JobsRemaining    int `json:"jobs_remaining"`
}

func (s Subscription) Usage() Usage {
	return Usage{
		TendersRemaining: max(s.TenderCount-s.TakeTenderCount, 0),
		JobsRemaining:    max(s.JobCount-s.TakeJobCount, 0),
	}
}
