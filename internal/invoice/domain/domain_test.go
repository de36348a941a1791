package domain

import (
	"testing"

	"github.com/megomed/marketplace/internal/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMapStatusKnownValues(t *testing.T) {
	cases := map[Status]Presentation{
		StatusPending:   {Label: "Pending", Color: ColorYellow},
		StatusAccepted:  {Label: "Accepted", Color: ColorBlue},
		StatusDelivered: {Label: "Delivered", Color: ColorGreen},
		StatusDeclined:  {Label: "Declined", Color: ColorRed},
		StatusCompleted: {Label: "Completed", Color: ColorPurple},
	}
	for status, want := range cases {
		assert.Equal(t, want, MapStatus(status), status)
	}
}

func TestMapStatusFallsBackToPending(t *testing.T) {
	for _, status := range []Status{"", "PENDING", "cancelled", "unknown", "\x00", "delivered-ish", " delivered ", "accepted\n"} {
		assert.NotPanics(t, func() {
			assert.Equal(t, Presentation{Label: "Pending", Color: ColorYellow}, MapStatus(status))
		})
	}
}

func TestAvailableActionsByRole(t *testing.T) {
	inv := Invoice{ID: "1", Status: StatusAccepted}

	assert.Equal(t,
		[]Action{ActionViewDetails, ActionPayNow},
		AvailableActions(role.Client, inv).Actions())
	assert.Equal(t,
		[]Action{ActionViewDetails, ActionExtendDeliveryDate, ActionDeliveryNow},
		AvailableActions(role.Freelancer, inv).Actions())
	assert.Equal(t,
		[]Action{ActionViewDetails},
		AvailableActions(role.Company, inv).Actions())
}

func TestAcceptExtendRequestNeedsClientAndExtendDate(t *testing.T) {
	withRequest := Invoice{ID: "1", ExtendDate: strPtr("2024-06-01")}

	assert.True(t, AvailableActions(role.Client, withRequest).Has(ActionAcceptExtendRequest))
	assert.False(t, AvailableActions(role.Freelancer, withRequest).Has(ActionAcceptExtendRequest))
	assert.False(t, AvailableActions(role.Client, Invoice{ID: "1"}).Has(ActionAcceptExtendRequest))
	assert.False(t, AvailableActions(role.Client, Invoice{ID: "1", ExtendDate: strPtr("")}).Has(ActionAcceptExtendRequest))
}

func TestDeliveryNowDisabledOnceDelivered(t *testing.T) {
	control, ok := AvailableActions(role.Freelancer, Invoice{Status: StatusDelivered}).Get(ActionDeliveryNow)
	require.True(t, ok)
	assert.True(t, control.Disabled)
	assert.Equal(t, "Delivered", control.Label)

	control, ok = AvailableActions(role.Freelancer, Invoice{Status: StatusAccepted}).Get(ActionDeliveryNow)
	require.True(t, ok)
	assert.False(t, control.Disabled)
}

func TestExtendTransitions(t *testing.T) {
	assert.True(t, CanTransition(ExtendNone, ExtendPending))
	assert.True(t, CanTransition(ExtendPending, ExtendResolved))
	assert.True(t, CanTransition(ExtendResolved, ExtendNone))
	assert.False(t, CanTransition(ExtendNone, ExtendResolved))
	assert.False(t, CanTransition(ExtendPending, ExtendNone))

	assert.Equal(t, ExtendPending, DeriveExtendState(Invoice{ExtendDate: strPtr("2024-06-01")}))
	assert.Equal(t, ExtendNone, DeriveExtendState(Invoice{}))
}

func TestParseExtendAction(t *testing.T) {
	action, err := ParseExtendAction(" Accept ")
	require.NoError(t, err)
	assert.Equal(t, ExtendAccept, action)

	_, err = ParseExtendAction("postpone")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestBuildViewDisablesDecisionWhileInFlight(t *testing.T) {
	inv := Invoice{ID: "1", Status: StatusPending, ExtendDate: strPtr("2024-06-01"), DeliveryMessage: strPtr("need a week")}

	view := BuildView(role.Client, inv, InFlight{Extend: true})
	require.NotNil(t, view.ExtendDecision)
	assert.True(t, view.ExtendDecision.AcceptDisabled)
	assert.True(t, view.ExtendDecision.RejectDisabled)
	assert.Equal(t, "need a week", view.ExtendDecision.DeliveryMessage)

	view = BuildView(role.Client, inv, InFlight{})
	assert.False(t, view.ExtendDecision.AcceptDisabled)
	assert.False(t, view.ExtendDecision.RejectDisabled)

	view = BuildView(role.Freelancer, inv, InFlight{Extend: true})
	assert.Nil(t, view.ExtendDecision)
}

func TestBuildViewDisablesPayWhileInFlight(t *testing.T) {
	view := BuildView(role.Client, Invoice{ID: "1"}, InFlight{Pay: true})
	control, ok := view.Actions.Get(ActionPayNow)
	require.True(t, ok)
	assert.True(t, control.Disabled)
}
