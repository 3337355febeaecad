package domain

import "time"

const defaultWindowLimit = 100

type Window string

const (
	WindowSession   Window = "session"
	WindowWeekly    Window = "weekly"
	WindowSecondary Window = "secondary"
)

func (w Window) Label() string {
	switch w {
	case WindowSession:
		return "5h"
	case WindowWeekly:
		return "7d"
	case WindowSecondary:
		return "7d sonnet"
	default:
		return string(w)
	}
}

// UsageWindow is the consumption of one rolling quota window.
type UsageWindow struct {
	Usage    int
	Limit    int
	ResetsAt *time.Time
}

func NewUsageWindow() UsageWindow {
	return UsageWindow{Limit: defaultWindowLimit}
}

// Percentage returns Usage as a whole percentage of Limit, or 0 when the
// limit is not positive.
func (w UsageWindow) Percentage() int {
	if w.Limit <= 0 {
		return 0
	}

	return w.Usage * 100 / w.Limit
}
