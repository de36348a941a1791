package domain

import "github.com/megomed/marketplace/internal/role"

// InFlight reports which mutations are running for an invoice.
type InFlight struct {
	Extend bool
	Pay    bool
}

// ExtendDecision is the content of the accept/reject dialog.
type ExtendDecision struct {
	ExtendDate      string `json:"extend_date"`
	DeliveryMessage string `json:"delivery_message,omitempty"`
	AcceptDisabled  bool   `json:"accept_disabled"`
	RejectDisabled  bool   `json:"reject_disabled"`
}

// InvoiceView is the derived view-state for one invoice.
type InvoiceView struct {
	Invoice        Invoice            `json:"invoice"`
	Presentation   Presentation       `json:"presentation"`
	ExtendState    ExtendRequestState `json:"extend_state"`
	Actions        ActionSet          `json:"actions"`
	ExtendDecision *ExtendDecision    `json:"extend_decision,omitempty"`
}

func BuildView(r role.Role, inv Invoice, inFlight InFlight) InvoiceView {
	actions := AvailableActions(r, inv)
	if inFlight.Pay {
		for i := range actions {
			if actions[i].Action == ActionPayNow {
				actions[i].Disabled = true
			}
		}
	}

	view := InvoiceView{
		Invoice:      inv,
		Presentation: MapStatus(inv.Status),
		ExtendState:  DeriveExtendState(inv),
		Actions:      actions,
	}
	if actions.Has(ActionAcceptExtendRequest) {
		decision := &ExtendDecision{
			ExtendDate:     *inv.ExtendDate,
			AcceptDisabled: inFlight.Extend,
			RejectDisabled: inFlight.Extend,
		}
		if inv.DeliveryMessage != nil {
			decision.DeliveryMessage = *inv.DeliveryMessage
		}
		view.ExtendDecision = decision
	}
	return view
}
