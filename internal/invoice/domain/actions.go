package domain

import (
	"github.com/megomed/marketplace/internal/role"
	"github.com/samber/lo"
)

type Action string

const (
	ActionViewDetails         Action = "viewDetails"
	ActionPayNow              Action = "payNow"
	ActionExtendDeliveryDate  Action = "extendDeliveryDate"
	ActionDeliveryNow         Action = "deliveryNow"
	ActionAcceptExtendRequest Action = "acceptExtendRequest"
)

// ActionControl is one visible control. Disabled controls stay visible.
type ActionControl struct {
	Action   Action `json:"action"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

type ActionSet []ActionControl

func (s ActionSet) Has(action Action) bool {
	return lo.ContainsBy(s, func(c ActionControl) bool { return c.Action == action })
}

func (s ActionSet) Get(action Action) (ActionControl, bool) {
	return lo.Find(s, func(c ActionControl) bool { return c.Action == action })
}

func (s ActionSet) Actions() []Action {
	return lo.Map(s, func(c ActionControl, _ int) Action { return c.Action })
}

// AvailableActions gates the invoice controls by the viewer's role.
func AvailableActions(r role.Role, inv Invoice) ActionSet {
	actions := ActionSet{{Action: ActionViewDetails, Label: "View Details"}}

	switch r {
	case role.Client:
		actions = append(actions, ActionControl{Action: ActionPayNow, Label: "Pay Now"})
		if inv.HasExtendRequest() {
			actions = append(actions, ActionControl{Action: ActionAcceptExtendRequest, Label: "Extend Request"})
		}
	case role.Freelancer:
		actions = append(actions, ActionControl{Action: ActionExtendDeliveryDate, Label: "Extend Delivery Date"})
		if inv.Status == StatusDelivered {
			actions = append(actions, ActionControl{Action: ActionDeliveryNow, Label: "Delivered", Disabled: true})
		} else {
			actions = append(actions, ActionControl{Action: ActionDeliveryNow, Label: "Delivery Now"})
		}
	}
	return actions
}
