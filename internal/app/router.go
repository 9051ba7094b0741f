package app

// ViewState represents the current active view in the application.
// ViewList, ViewSingle and ViewCompose are the three mail panels; the
// rest are overlays or auxiliary screens.
type ViewState int

const (
	ViewList ViewState = iota
	ViewSingle
	ViewCompose
	ViewHelp
	ViewCommand
	ViewSettings
)

// Event is a navigation trigger fed to Next.
type Event int

const (
	EventLoadMailbox Event = iota
	EventOpenEmail
	EventCompose
	EventSent
	EventArchived
	EventBack
	EventSettings
	EventSettingsDone
)

// Next returns the view that follows current after ev.
func Next(current ViewState, ev Event) ViewState {
	switch ev {
	case EventLoadMailbox, EventSent, EventArchived, EventSettingsDone:
		return ViewList
	case EventOpenEmail:
		return ViewSingle
	case EventCompose:
		return ViewCompose
	case EventSettings:
		return ViewSettings
	case EventBack:
		if current == ViewSingle || current == ViewCompose {
			return ViewList
		}
	}
	return current
}

// IsOverlay reports whether v is drawn in place of another panel and
// returns to it when closed.
func IsOverlay(v ViewState) bool {
	return v == ViewHelp || v == ViewCommand
}

// Panel resolves the mail panel underneath current. previous is the view
// that was active when an overlay opened.
func Panel(current, previous ViewState) ViewState {
	if IsOverlay(current) {
		return previous
	}
	return current
}

// Visible reports whether panel p is the one on screen while v is active.
func Visible(v, p ViewState) bool {
	return v == p
}
