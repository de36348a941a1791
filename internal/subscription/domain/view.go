package domain

import "time"

type SubscriptionView struct {
	Subscription Subscription `json:"subscription"`
	Window       Window       `json:"window"`
	IsRunning    bool         `json:"is_running"`
	IsExpired    bool         `json:"is_expired"`
	Button       Button       `json:"button"`
	Usage        Usage        `json:"usage"`
}

func BuildView(sub Subscription, now time.Time, renewInFlight bool) SubscriptionView {
	window := Classify(sub.EndDate, now)
	return SubscriptionView{
		Subscription: sub,
		Window:       window,
		IsRunning:    window.IsRunning(),
		IsExpired:    window.IsExpired(),
		Button:       ButtonState(window, renewInFlight),
		Usage:        sub.Usage(),
	}
}
