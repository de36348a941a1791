// Package feedback describes what a UI should do after a workflow ran: the toast
// it shows and the side effects it performs.
package feedback

import (
	"errors"
	"time"
)

type Tone string

const (
	ToneSuccess Tone = "success"
	ToneInfo    Tone = "info"
	ToneError   Tone = "error"
)

type Status string

const (
	StatusApplied Status = "applied"
	// StatusSkipped marks a call ignored because the same mutation is already in flight.
	StatusSkipped Status = "skipped"
)

// Outcome is the result of a successful or skipped workflow call.
type Outcome struct {
	Status  Status `json:"status"`
	Tone    Tone   `json:"tone,omitempty"`
	Message string `json:"message,omitempty"`

	// OpenURL is opened in a new browsing context; the current page stays put.
	OpenURL string `json:"open_url,omitempty"`
	// NavigateURL replaces the current page.
	NavigateURL string `json:"navigate_url,omitempty"`
	// Refetched reports that the cached list was invalidated and loaded again.
	Refetched bool `json:"refetched"`

	CloseDialogAfterMS int64 `json:"close_dialog_after_ms,omitempty"`
}

func Skipped() Outcome {
	return Outcome{Status: StatusSkipped}
}

func (o Outcome) CloseDialogAfter() time.Duration {
	return time.Duration(o.CloseDialogAfterMS) * time.Millisecond
}

func (o Outcome) WithCloseDialogAfter(d time.Duration) Outcome {
	o.CloseDialogAfterMS = d.Milliseconds()
	return o
}

// Error is a failed workflow call translated into a user-facing message.
type Error struct {
	Message string
	// StatusCode is the upstream HTTP status, zero for transport or semantic failures.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MessageOf returns the user-facing message carried by err, if any.
func MessageOf(err error) (string, bool) {
	var fErr *Error
	if errors.As(err, &fErr) && fErr != nil {
		return fErr.Message, true
	}
	return "", false
}
