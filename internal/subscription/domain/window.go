package domain

import (
	"time"

	"github.com/megomed/marketplace/pkg/listing"
)

type WindowState int

const (
	WindowUnknown WindowState = iota
	WindowRunning
	WindowExpired
)

func (s WindowState) String() string {
	switch s {
	case WindowRunning:
		return "running"
	case WindowExpired:
		return "expired"
	default:
		return "unknown"
	}
}

func (s WindowState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Window is the classification of a plan relative to an instant.
type Window struct {
	State WindowState `json:"state"`
	// EndsAt is zero when the end date was missing or unparseable.
	EndsAt time.Time `json:"ends_at,omitzero"`
}

// Classify marks a plan running while its end date is not before now. Missing
// and unparseable end dates are expired.
func Classify(endDate RawDate, now time.Time) Window {
	endsAt, ok := listing.ParseTime(string(endDate))
	if !ok {
		return Window{State: WindowExpired}
	}
	if endsAt.Before(now) {
		return Window{State: WindowExpired, EndsAt: endsAt}
	}
	return Window{State: WindowRunning, EndsAt: endsAt}
}

func (w Window) IsExpired() bool {
	return w.State != WindowRunning
}

func (w Window) IsRunning() bool {
	return !w.IsExpired()
}

type ButtonVariant string

const (
	VariantDefault     ButtonVariant = "default"
	VariantDestructive ButtonVariant = "destructive"
	VariantOutline     ButtonVariant = "outline"
)

type Button struct {
	Text     string        `json:"text"`
	Variant  ButtonVariant `json:"variant"`
	Disabled bool          `json:"disabled"`
}

// ButtonState gates the renew button. An expired plan can only be disabled by
// a renewal already in flight.
func ButtonState(w Window, renewInFlight bool) Button {
	switch w.State {
	case WindowRunning:
		return Button{Text: "Running", Variant: VariantDefault, Disabled: true}
	case WindowExpired:
		return Button{Text: "Upgrade", Variant: VariantDestructive, Disabled: renewInFlight}
	default:
		return Button{Text: "Inactive", Variant: VariantOutline, Disabled: true}
	}
}
