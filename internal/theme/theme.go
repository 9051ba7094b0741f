package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}

	// ColorReadRow is #740001 blended at half strength over the terminal
	// background, approximating the 0.5 alpha the read rows use.
	ColorReadRow = lipgloss.AdaptiveColor{Dark: "#3A0001", Light: "#B98080"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// StatusErrorStyle replaces StatusBarStyle while a failure is reported.
var StatusErrorStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// PanelStyle wraps the message, compose and overlay content areas.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle is the heading at the top of each panel.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// LabelStyle renders header field names in the message view.
var LabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// ErrorBannerStyle shows a server error above the compose form.
var ErrorBannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1).
	MarginBottom(1)

// NoticeStyle is used for informational one-liners such as empty mailboxes.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	PaddingLeft(2)

// RowStyle is the base style for a mailbox row. Rows are separated by a
// top border; the last row also closes the box.
var RowStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	PaddingRight(1).
	BorderForeground(ColorBorder)

// RowBorderTop draws only the top edge of a row.
func RowBorderTop(s lipgloss.Style) lipgloss.Style {
	return s.Border(lipgloss.NormalBorder(), true, true, false, true)
}

// RowBorderBox draws the full box around a row.
func RowBorderBox(s lipgloss.Style) lipgloss.Style {
	return s.Border(lipgloss.NormalBorder(), true, true, true, true)
}

// UnreadRowStyle marks unread inbox rows.
func UnreadRowStyle(s lipgloss.Style) lipgloss.Style {
	return s.Bold(true)
}

// ReadRowStyle tints read inbox rows.
func ReadRowStyle(s lipgloss.Style) lipgloss.Style {
	return s.Background(ColorReadRow)
}

// SelectedRowStyle highlights the row under the cursor.
func SelectedRowStyle(s lipgloss.Style) lipgloss.Style {
	return s.BorderForeground(ColorBlue).Foreground(ColorBlue)
}

// EmphasizedStyle renders the "To:" column of sent rows.
var EmphasizedStyle = lipgloss.NewStyle().Italic(true)

// ActionStyle renders an action hint in the message view.
var ActionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1).
	MarginRight(1)

// PollStyle returns a color-coded style for the poller state label.
func PollStyle(state string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch state {
	case "polling":
		return base.Foreground(ColorYellow)
	case "error":
		return base.Foreground(ColorRed)
	case "idle":
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}
