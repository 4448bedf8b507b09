package tui

import (
	"context"
	"fmt"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type addressesMode int

const (
	addressesModeView addressesMode = iota
	addressesModeFrom
	addressesModeTo
)

// address form field indices
const (
	addrFieldName = iota
	addrFieldStreet
	addrFieldCity
	addrFieldState
	addrFieldCountry
	addrFieldZip
)

// AddressesModel shows and edits the sender and recipient addresses
type AddressesModel struct {
	env       *env
	mode      addressesMode
	form      *form
	statusMsg string
	err       error
}

// NewAddressesModel creates a new addresses screen
func NewAddressesModel(e *env) *AddressesModel {
	return &AddressesModel{env: e}
}

// IsCapturingInput returns true when the edit form is active
func (m *AddressesModel) IsCapturingInput() bool {
	return m.mode != addressesModeView
}

func (m *AddressesModel) Init() tea.Cmd {
	return nil
}

func (m *AddressesModel) openForm(mode addressesMode, title string, addr domain.Address) tea.Cmd {
	m.mode = mode
	m.form = newForm(title, []fieldSpec{
		{label: "Name:", placeholder: "Company or person", charLimit: 100, width: 40, value: addr.Name},
		{label: "Street:", placeholder: "Street address", charLimit: 120, width: 50, value: addr.Street},
		{label: "City:", placeholder: "City", charLimit: 60, width: 30, value: addr.City},
		{label: "State:", placeholder: "State", charLimit: 60, width: 30, value: addr.State},
		{label: "Country:", placeholder: "Country", charLimit: 60, width: 30, value: addr.Country},
		{label: "Zip code:", placeholder: "000000", charLimit: 20, width: 15, value: addr.ZipCode},
	})
	return m.form.focusCmd()
}

func (m *AddressesModel) closeForm() {
	m.mode = addressesModeView
	m.form = nil
}

func (m *AddressesModel) addressFromForm() domain.Address {
	f := m.form
	return domain.Address{
		Name:    f.value(addrFieldName),
		Street:  f.value(addrFieldStreet),
		City:    f.value(addrFieldCity),
		State:   f.value(addrFieldState),
		Country: f.value(addrFieldCountry),
		ZipCode: f.value(addrFieldZip),
	}
}

func saveAddressCmd(store addressSaver, addr domain.Address) tea.Cmd {
	return func() tea.Msg {
		return addressSavedMsg{err: store.Save(context.Background(), addr)}
	}
}

func (m *AddressesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(addressSavedMsg); ok {
		if saved.err != nil {
			m.env.logger.Error("failed to save from-address", zap.Error(saved.err))
			m.err = fmt.Errorf("sender address not saved: %w", saved.err)
			return m, nil
		}
		m.statusMsg = "Sender address saved"
		return m, nil
	}

	if m.mode != addressesModeView {
		return m, m.form.update(msg, addressFormActions{m})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.EditFrom):
			return m, m.openForm(addressesModeFrom, "Edit From Address", m.env.ledger.From())
		case key.Matches(msg, DefaultKeyMap.EditTo):
			var current domain.Address
			if to := m.env.ledger.To(); to != nil {
				current = *to
			}
			return m, m.openForm(addressesModeTo, "Edit To Address", current)
		case key.Matches(msg, DefaultKeyMap.Back):
			return m, backToItems
		case key.Matches(msg, DefaultKeyMap.ClearTo):
			m.env.ledger.ClearToAddress()
			m.statusMsg = "Recipient cleared"
		}
	}

	return m, nil
}

type addressFormActions struct{ m *AddressesModel }

func (a addressFormActions) reset()  { a.m.form.restore() }
func (a addressFormActions) cancel() { a.m.closeForm() }

// submit applies the address to the ledger. The sender address is also
// persisted; a blank recipient form unsets the recipient.
func (a addressFormActions) submit() tea.Cmd {
	m := a.m
	addr := m.addressFromForm()
	mode := m.mode
	m.closeForm()

	if mode == addressesModeFrom {
		m.env.ledger.SetFromAddress(addr)
		return saveAddressCmd(m.env.addresses, addr)
	}

	if addr.IsBlank() {
		m.env.ledger.ClearToAddress()
		m.statusMsg = "Recipient cleared"
		return nil
	}
	m.env.ledger.SetToAddress(addr)
	m.statusMsg = "Recipient updated"
	return nil
}

func (m *AddressesModel) View() string {
	if m.mode != addressesModeView {
		return m.form.view()
	}

	var s string
	s += titleStyle.Render("Addresses") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	from := addressBox("From", m.env.ledger.From().Lines())
	var toLines []string
	if to := m.env.ledger.To(); to != nil {
		toLines = to.Lines()
	} else {
		toLines = []string{subtitleStyle.Render("not set")}
	}
	to := addressBox("To", toLines)

	s += lipgloss.JoinHorizontal(lipgloss.Top, from, "  ", to) + "\n\n"
	s += helpStyle.Render("  f: edit from  t: edit to  c: clear to  esc: back")
	return s
}

func addressBox(title string, lines []string) string {
	body := titleStyle.Render(title)
	for _, line := range lines {
		body += "\n" + line
	}
	return boxStyle.Render(body)
}
