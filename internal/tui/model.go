package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/gemvoice/internal/app"
	"github.com/andy/gemvoice/internal/config"
	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/ledger"
	"github.com/andy/gemvoice/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenItems Screen = iota
	ScreenAddresses
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenItems:
		return "Items"
	case ScreenAddresses:
		return "Addresses"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// addressSaver persists the sender address
type addressSaver interface {
	Save(ctx context.Context, addr domain.Address) error
}

// env is what the screens share. The ledger is only touched from Update.
type env struct {
	ledger     *ledger.Ledger
	exporter   service.ExportService
	addresses  addressSaver
	config     *config.Config
	saveConfig func() error
	logger     *zap.Logger
}

// Model is the root Bubble Tea model
type Model struct {
	env           *env
	currentScreen Screen
	width         int
	height        int

	items     *ItemsModel
	addresses *AddressesModel
	settings  *SettingsModel

	quitMsg string // shown when quit is blocked
}

// New creates a new root model editing l
func New(a *app.App, l *ledger.Ledger) Model {
	return newModel(&env{
		ledger:     l,
		exporter:   a.Exporter,
		addresses:  a.Addresses,
		config:     a.Config,
		saveConfig: a.SaveConfig,
		logger:     a.Logger.Named("tui"),
	})
}

func newModel(e *env) Model {
	return Model{
		env:           e,
		currentScreen: ScreenItems,
		items:         NewItemsModel(e),
		addresses:     NewAddressesModel(e),
		settings:      NewSettingsModel(e),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.items.Init()
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (I, A, ",", Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) screen(s Screen) tea.Model {
	switch s {
	case ScreenItems:
		return m.items
	case ScreenAddresses:
		return m.addresses
	case ScreenSettings:
		return m.settings
	}
	return nil
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screen(m.currentScreen).(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

func (m *Model) switchTo(s Screen) tea.Cmd {
	m.currentScreen = s
	return func() tea.Msg { return RefreshDataMsg{} }
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Clear quit warning on any keypress
		m.quitMsg = ""

		if msg.String() == "ctrl+c" {
			return m.quit()
		}

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m.quit()

			case key.Matches(msg, DefaultKeyMap.Items):
				return m, m.switchTo(ScreenItems)

			case key.Matches(msg, DefaultKeyMap.Addresses):
				return m, m.switchTo(ScreenAddresses)

			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)
			}
		}

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	// Background results go to the screen that started them, wherever we are
	case exportDoneMsg:
		_, cmd := m.items.Update(msg)
		return m, cmd

	case addressSavedMsg:
		_, cmd := m.addresses.Update(msg)
		return m, cmd

	case settingsSavedMsg:
		_, cmd := m.settings.Update(msg)
		return m, cmd
	}

	// Route message to current screen
	var cmd tea.Cmd
	if s := m.screen(m.currentScreen); s != nil {
		_, cmd = s.Update(msg)
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.items.Busy() {
		m.quitMsg = "Export in progress. Wait for it to finish before quitting."
		return m, nil
	}
	return m, tea.Quit
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("gemvoice - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[I]tems  [A]ddresses  [,] Settings  [Q]uit")

	var content string
	if s := m.screen(m.currentScreen); s != nil {
		content = s.View()
	}

	errorDisplay := ""
	if m.quitMsg != "" {
		errorDisplay = lipgloss.NewStyle().
			Foreground(warningColor).
			Render(fmt.Sprintf("\n%s", m.quitMsg))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI on a fresh invoice
func Run(ctx context.Context, a *app.App) error {
	p := tea.NewProgram(New(a, a.NewLedger(ctx)), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
