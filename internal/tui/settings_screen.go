package tui

import (
	"fmt"

	"github.com/andy/gemvoice/internal/config"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldTitle = iota
	settingsFieldCurrency
	settingsFieldOutputDir
	settingsFieldFileName
)

// SettingsModel manages the settings screen
type SettingsModel struct {
	env       *env
	mode      settingsMode
	form      *form
	err       error
	statusMsg string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(e *env) *SettingsModel {
	return &SettingsModel{
		env:  e,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) openForm() tea.Cmd {
	cfg := m.env.config.Invoice
	m.mode = settingsModeEdit
	m.form = newForm("Edit Settings", []fieldSpec{
		{label: "Invoice Title:", placeholder: "INVOICE", charLimit: 40, width: 30, value: cfg.Title},
		{label: "Currency Symbol (screen only):", placeholder: "₹", charLimit: 5, width: 8, value: cfg.CurrencySymbol},
		{label: "Output Directory:", placeholder: "/path/to/invoices", charLimit: 256, width: 60, value: cfg.OutputDir},
		{label: "Default File Name:", placeholder: "invoice.pdf", charLimit: 100, width: 30, value: cfg.FileName},
	})
	return m.form.focusCmd()
}

func (m *SettingsModel) closeForm() {
	m.mode = settingsModeView
	m.form = nil
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(settingsSavedMsg); ok {
		if saved.err != nil {
			m.env.logger.Error("failed to save config", zap.Error(saved.err))
			m.err = fmt.Errorf("failed to save config: %w", saved.err)
			return m, nil
		}
		m.statusMsg = "Settings saved"
		return m, nil
	}

	if m.mode == settingsModeEdit {
		return m, m.form.update(msg, settingsFormActions{m})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Select):
			m.statusMsg = ""
			return m, m.openForm()
		case key.Matches(msg, DefaultKeyMap.Back):
			return m, backToItems
		}
	}

	return m, nil
}

type settingsFormActions struct{ m *SettingsModel }

func (a settingsFormActions) reset()  { a.m.form.restore() }
func (a settingsFormActions) cancel() { a.m.closeForm() }

// submit validates a copy first so a bad value never reaches the live config
func (a settingsFormActions) submit() tea.Cmd {
	m := a.m
	f := m.form

	candidate := *m.env.config
	candidate.Invoice.Title = f.value(settingsFieldTitle)
	candidate.Invoice.CurrencySymbol = f.value(settingsFieldCurrency)
	candidate.Invoice.OutputDir = config.ExpandHome(f.value(settingsFieldOutputDir))
	candidate.Invoice.FileName = f.value(settingsFieldFileName)

	if candidate.Invoice.OutputDir == "" {
		f.err = fmt.Errorf("output directory is required")
		return nil
	}
	if err := candidate.Validate(); err != nil {
		f.err = err
		return nil
	}

	m.env.config.Invoice = candidate.Invoice
	m.closeForm()

	save := m.env.saveConfig
	return func() tea.Msg {
		return settingsSavedMsg{err: save()}
	}
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.form.view()
	}

	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	cfg := m.env.config.Invoice

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	symbol := cfg.CurrencySymbol
	if symbol == "" {
		symbol = "(none)"
	}

	s += subtitleStyle.Render("  Invoice Settings") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Title:"), valueStyle.Render(cfg.Title))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Invoice Number:"), valueStyle.Render(cfg.NumberPlaceholder))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Currency Symbol:"), valueStyle.Render(symbol))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Output Directory:"), valueStyle.Render(cfg.OutputDir))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("File Name:"), valueStyle.Render(cfg.FileName))

	s += "\n" + helpStyle.Render("  enter: edit settings  esc: back")

	return s
}
