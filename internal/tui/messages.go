package tui

import tea "github.com/charmbracelet/bubbletea"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

func backToItems() tea.Msg {
	return SwitchScreenMsg{Screen: ScreenItems}
}

// RefreshDataMsg asks the screen being switched to to re-read shared state
type RefreshDataMsg struct{}

// exportDoneMsg reports the result of a background export
type exportDoneMsg struct {
	path string
	err  error
}

// addressSavedMsg reports whether the sender address reached storage
type addressSavedMsg struct {
	err error
}

type settingsSavedMsg struct {
	err error
}
