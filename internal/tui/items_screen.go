package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/andy/gemvoice/internal/config"
	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/money"
	"github.com/andy/gemvoice/internal/render"
	"github.com/andy/gemvoice/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// itemsMode represents the current screen mode
type itemsMode int

const (
	itemsModeList itemsMode = iota
	itemsModeNew
	itemsModeEdit
	itemsModeDiscount
	itemsModeExport
)

// item form field indices
const (
	itemFieldDescription = iota
	itemFieldPieces
	itemFieldCarats
	itemFieldPrice
)

// ItemsModel lists the invoice's line items with add/edit/delete, discount
// and export
type ItemsModel struct {
	env          *env
	mode         itemsMode
	cursor       int
	form         *form
	editingID    string // empty for a new item
	totals       domain.Totals
	exporting    bool
	confirmClear bool // N pressed once; a second N starts a new invoice
	statusMsg    string
	err          error
}

// NewItemsModel creates a new items screen model
func NewItemsModel(e *env) *ItemsModel {
	m := &ItemsModel{env: e, totals: e.ledger.Totals()}
	e.ledger.OnChange(m.onTotals)
	return m
}

func (m *ItemsModel) onTotals(t domain.Totals) {
	m.totals = t
}

// IsCapturingInput returns true when a form is active
func (m *ItemsModel) IsCapturingInput() bool {
	return m.mode != itemsModeList
}

// Busy returns true while an export is being written
func (m *ItemsModel) Busy() bool {
	return m.exporting
}

func (m *ItemsModel) Init() tea.Cmd {
	return nil
}

func (m *ItemsModel) clampCursor() {
	if n := m.env.ledger.Len(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *ItemsModel) closeForm() {
	m.mode = itemsModeList
	m.form = nil
	m.editingID = ""
}

func (m *ItemsModel) openItemForm(editing *domain.LineItem) tea.Cmd {
	specs := []fieldSpec{
		{label: "Description:", placeholder: "Round brilliant diamond", charLimit: 200, width: 50},
		{label: "Pieces:", placeholder: "1", charLimit: 6, width: 10, value: "1"},
		{label: "Carats:", placeholder: "0.50", charLimit: 12, width: 15},
		{label: "Price per carat:", placeholder: "0.00", charLimit: 16, width: 20},
	}
	title := "New Item"
	m.mode = itemsModeNew
	m.editingID = ""

	if editing != nil {
		specs[itemFieldDescription].value = editing.Description
		specs[itemFieldPieces].value = strconv.Itoa(editing.Pieces)
		specs[itemFieldCarats].value = money.FormatQuantity(editing.Carats)
		specs[itemFieldPrice].value = money.FormatQuantity(editing.Price)
		title = "Edit Item"
		m.mode = itemsModeEdit
		m.editingID = editing.ID
	}

	m.form = newForm(title, specs)
	return m.form.focusCmd()
}

func (m *ItemsModel) openDiscountForm() tea.Cmd {
	current := ""
	if d := m.env.ledger.Discount(); d.IsPositive() {
		current = money.FormatQuantity(d)
	}

	m.mode = itemsModeDiscount
	m.form = newForm("Discount", []fieldSpec{
		{label: "Discount percentage (0-100):", placeholder: "5", charLimit: 8, width: 10, value: current},
	})
	m.form.help = "enter: apply  ctrl+r: remove discount / reset  esc: cancel"
	return m.form.focusCmd()
}

// startExport checks the precondition before asking for a destination
func (m *ItemsModel) startExport() tea.Cmd {
	if m.exporting {
		m.statusMsg = "Export already in progress"
		return nil
	}
	if err := m.env.exporter.CheckExportable(m.env.ledger.Snapshot()); err != nil {
		m.err = err
		return nil
	}

	m.mode = itemsModeExport
	m.form = newForm("Export PDF", []fieldSpec{
		{label: "Save to:", placeholder: service.DefaultFileName, charLimit: 512, width: 60, value: m.env.config.ExportPath()},
	})
	m.form.help = "enter: export  ctrl+r: reset  esc: cancel"
	return m.form.focusCmd()
}

// exportCmd writes snapshot in the background. The snapshot is a value taken
// on the update loop, so later edits do not reach the file.
func exportCmd(exporter service.ExportService, snapshot domain.Snapshot, path string) tea.Cmd {
	return func() tea.Msg {
		written, err := exporter.Export(context.Background(), snapshot, config.ExpandHome(path))
		return exportDoneMsg{path: written, err: err}
	}
}

func (m *ItemsModel) finishExport(msg exportDoneMsg) {
	m.exporting = false
	if msg.err != nil {
		if errors.Is(msg.err, domain.ErrExportPrecondition) {
			m.err = msg.err
			return
		}
		m.env.logger.Error("export failed", zap.Error(msg.err))
		m.err = errors.New("export failed; details are in the log")
		return
	}
	m.err = nil
	m.statusMsg = fmt.Sprintf("Exported: %s", msg.path)
}

func (m *ItemsModel) actions() formActions {
	switch m.mode {
	case itemsModeDiscount:
		return discountFormActions{m}
	case itemsModeExport:
		return exportFormActions{m}
	default:
		return itemFormActions{m}
	}
}

func (m *ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(exportDoneMsg); ok {
		m.finishExport(done)
		return m, nil
	}

	if m.mode != itemsModeList {
		return m, m.form.update(msg, m.actions())
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.err = nil
		items := m.env.ledger.Items()

		confirming := m.confirmClear
		m.confirmClear = false

		switch {
		case key.Matches(msg, DefaultKeyMap.Clear):
			if !confirming {
				m.confirmClear = true
				m.statusMsg = "Press N again to discard this invoice and start a new one"
				return m, nil
			}
			m.env.ledger.Reset()
			m.cursor = 0
			m.statusMsg = "Started a new invoice"
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(items)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openItemForm(nil)
		case key.Matches(msg, DefaultKeyMap.Select):
			if m.cursor < len(items) {
				return m, m.openItemForm(&items[m.cursor])
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if m.cursor < len(items) {
				m.env.ledger.RemoveItem(items[m.cursor].ID)
				m.statusMsg = fmt.Sprintf("Removed: %s", items[m.cursor].Description)
				m.clampCursor()
			}
		case key.Matches(msg, DefaultKeyMap.Discount):
			return m, m.openDiscountForm()
		case key.Matches(msg, DefaultKeyMap.Export):
			return m, m.startExport()
		}
	}

	return m, nil
}

type itemFormActions struct{ m *ItemsModel }

func (a itemFormActions) reset()  { a.m.form.restore() }
func (a itemFormActions) cancel() { a.m.closeForm() }

func (a itemFormActions) submit() tea.Cmd {
	m := a.m
	f := m.form
	in, err := parseItemInput(
		f.value(itemFieldDescription),
		f.value(itemFieldPieces),
		f.value(itemFieldCarats),
		f.value(itemFieldPrice),
	)
	if err != nil {
		f.err = err
		return nil
	}

	if m.editingID == "" {
		if _, err := m.env.ledger.AddItem(in); err != nil {
			f.err = err
			return nil
		}
		m.cursor = m.env.ledger.Len() - 1
		m.statusMsg = fmt.Sprintf("Added: %s", in.Description)
	} else {
		if _, err := m.env.ledger.UpdateItem(m.editingID, in); err != nil {
			f.err = err
			return nil
		}
		m.statusMsg = fmt.Sprintf("Updated: %s", in.Description)
	}

	m.closeForm()
	return nil
}

type discountFormActions struct{ m *ItemsModel }

// reset removes an applied discount, otherwise clears the field
func (a discountFormActions) reset() {
	m := a.m
	if m.env.ledger.Discount().IsPositive() {
		m.env.ledger.ClearDiscount()
		m.statusMsg = "Discount removed"
		m.closeForm()
		return
	}
	m.form.restore()
}

func (a discountFormActions) cancel() { a.m.closeForm() }

func (a discountFormActions) submit() tea.Cmd {
	m := a.m
	pct, err := money.Parse(m.form.value(0))
	if err != nil {
		m.form.err = domain.ValidationError{Field: "discount", Message: err.Error()}
		return nil
	}
	if err := m.env.ledger.SetDiscount(pct); err != nil {
		m.form.err = err
		return nil
	}

	if pct.IsZero() {
		m.statusMsg = "Discount removed"
	} else {
		m.statusMsg = fmt.Sprintf("Discount set to %s%%", money.FormatQuantity(pct))
	}
	m.closeForm()
	return nil
}

type exportFormActions struct{ m *ItemsModel }

func (a exportFormActions) reset()  { a.m.form.restore() }
func (a exportFormActions) cancel() { a.m.closeForm() }

func (a exportFormActions) submit() tea.Cmd {
	m := a.m
	path := m.form.value(0)
	if path == "" {
		m.form.err = domain.ValidationError{Field: "path", Message: "is required"}
		return nil
	}

	snapshot := m.env.ledger.Snapshot()
	if err := m.env.exporter.CheckExportable(snapshot); err != nil {
		m.form.err = err
		return nil
	}

	m.exporting = true
	m.statusMsg = "Exporting..."
	m.closeForm()
	return exportCmd(m.env.exporter, snapshot, path)
}

func (m *ItemsModel) View() string {
	if m.mode != itemsModeList {
		return m.form.view()
	}

	var s string
	s += titleStyle.Render("Line Items") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	items := m.env.ledger.Items()
	if len(items) == 0 {
		s += subtitleStyle.Render("  No items yet. Press n to add one.") + "\n"
	} else {
		header := fmt.Sprintf("  %-32s %7s %10s %14s %16s", "Description", "Pieces", "Carats", "Price", "Amount")
		s += subtitleStyle.Render(header) + "\n"
		for i, item := range items {
			row := fmt.Sprintf("  %-32s %7d %10s %14s %16s",
				render.Truncate(item.Description, 32),
				item.Pieces,
				money.FormatQuantity(item.Carats),
				money.Format(item.Price),
				money.Format(item.Amount),
			)
			if i == m.cursor {
				row = selectedStyle.Render(row)
			}
			s += row + "\n"
		}
	}

	s += "\n" + m.viewTotals() + "\n\n"

	to := "not set (press a, then t)"
	if addr := m.env.ledger.To(); addr != nil {
		if lines := addr.Lines(); len(lines) > 0 {
			to = lines[0]
		} else {
			to = "(blank)"
		}
	}
	s += subtitleStyle.Render("  To: "+to) + "\n\n"

	s += helpStyle.Render("  ↑/↓: navigate  n: new  enter: edit  d: delete  %: discount  x: export PDF  N: new invoice")
	return s
}

func (m *ItemsModel) viewTotals() string {
	symbol := m.env.config.Invoice.CurrencySymbol
	line := func(label, value string) string {
		return totalLabelStyle.Render(label) + " " + totalValueStyle.Render(value) + "\n"
	}

	var s string
	s += line("Subtotal:", money.FormatCurrency(m.totals.Subtotal, symbol))
	if d := m.env.ledger.Discount(); d.IsPositive() {
		label := fmt.Sprintf("Discount (%s%%):", money.FormatQuantity(d))
		s += line(label, "-"+money.FormatCurrency(m.totals.DiscountAmount, symbol))
	}
	s += totalLabelStyle.Render("Total:") + " " + grandTotalStyle.Render(money.FormatCurrency(m.totals.Total, symbol))
	return s
}
