package domain

import (
	"strings"

	"github.com/samber/lo"
)

// ExtendRequestState tracks a delivery extension on a single invoice.
type ExtendRequestState int

const (
	ExtendNone ExtendRequestState = iota
	ExtendPending
	ExtendResolved
)

func (s ExtendRequestState) String() string {
	switch s {
	case ExtendPending:
		return "pending"
	case ExtendResolved:
		return "resolved"
	default:
		return "none"
	}
}

func (s ExtendRequestState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// None to Pending happens on the backend when the freelancer asks. Resolved is
// transient: the next fetch shows either no request or a fresh one.
var extendTransitions = map[ExtendRequestState][]ExtendRequestState{
	ExtendNone:     {ExtendPending},
	ExtendPending:  {ExtendResolved},
	ExtendResolved: {ExtendNone, ExtendPending},
}

func CanTransition(from, to ExtendRequestState) bool {
	return lo.Contains(extendTransitions[from], to)
}

// DeriveExtendState reads the state from a fetched record.
func DeriveExtendState(inv Invoice) ExtendRequestState {
	if inv.HasExtendRequest() {
		return ExtendPending
	}
	return ExtendNone
}

// ExtendAction is the client's decision on an extend request.
type ExtendAction string

const (
	ExtendAccept ExtendAction = "accept"
	ExtendReject ExtendAction = "reject"
)

func ParseExtendAction(raw string) (ExtendAction, error) {
	switch a := ExtendAction(strings.ToLower(strings.TrimSpace(raw))); a {
	case ExtendAccept, ExtendReject:
		return a, nil
	default:
		return "", ErrInvalidAction
	}
}
