package domain

type Color string

const (
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
)

// Presentation is the badge shown for an invoice status.
type Presentation struct {
	Label string `json:"label"`
	Color Color  `json:"color"`
}

var pendingPresentation = Presentation{Label: "Pending", Color: ColorYellow}

var presentations = map[Status]Presentation{
	StatusPending:   pendingPresentation,
	StatusAccepted:  {Label: "Accepted", Color: ColorBlue},
	StatusDelivered: {Label: "Delivered", Color: ColorGreen},
	StatusDeclined:  {Label: "Declined", Color: ColorRed},
	StatusCompleted: {Label: "Completed", Color: ColorPurple},
}

// MapStatus is total: anything but an exact known status renders as pending.
func MapStatus(status Status) Presentation {
	if p, ok := presentations[status]; ok {
		return p
	}
	return pendingPresentation
}
