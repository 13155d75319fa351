package tui

import tea "github.com/charmbracelet/bubbletea"

// DebounceMsg builds the filter debounce tick carrying the given
// sequence number.
func DebounceMsg(seq int) tea.Msg {
	return filterDebounceMsg{seq: seq}
}

// CurrentStyles exposes the style set the app is rendering with.
func (a App) CurrentStyles() Styles {
	return a.styles
}
