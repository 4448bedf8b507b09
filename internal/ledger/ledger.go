// Package ledger holds the invoice currently being built: an ordered list of
// line items, the sender and recipient addresses, and a whole-invoice
// discount. It is owned by a single writer and is not safe for concurrent use.
package ledger

import (
	"fmt"
	"time"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChangeFunc is called with freshly computed totals after every effective mutation
type ChangeFunc func(domain.Totals)

// Ledger is an invoice in progress
type Ledger struct {
	items    []domain.LineItem
	from     domain.Address
	to       *domain.Address
	discount decimal.Decimal

	observers []ChangeFunc
	newID     func() string
	now       func() time.Time
}

// Option configures a Ledger
type Option func(*Ledger)

// WithFromAddress seeds the sender address (normally loaded from storage)
func WithFromAddress(addr domain.Address) Option {
	return func(l *Ledger) { l.from = addr }
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// WithClock replaces time.Now for snapshot timestamps
func WithClock(fn func() time.Time) Option {
	return func(l *Ledger) { l.now = fn }
}

// New creates an empty ledger with the default sender address
func New(opts ...Option) *Ledger {
	l := &Ledger{
		items:    make([]domain.LineItem, 0),
		from:     domain.DefaultFromAddress(),
		discount: decimal.Zero,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnChange registers an observer for totals changes
func (l *Ledger) OnChange(fn ChangeFunc) {
	if fn != nil {
		l.observers = append(l.observers, fn)
	}
}

func (l *Ledger) notify() {
	if len(l.observers) == 0 {
		return
	}
	totals := l.Totals()
	for _, fn := range l.observers {
		fn(totals)
	}
}

// AddItem validates the input and appends a new line item with a fresh ID
func (l *Ledger) AddItem(in domain.ItemInput) (domain.LineItem, error) {
	if err := in.Validate(); err != nil {
		return domain.LineItem{}, err
	}

	item := domain.LineItem{
		ID:          l.newID(),
		Description: in.Description,
		Pieces:      in.Pieces,
		Carats:      in.Carats,
		Price:       in.Price,
		Amount:      in.Amount(),
	}
	l.items = append(l.items, item)
	l.notify()
	return item, nil
}

// UpdateItem replaces the fields of the item with the given ID in place
func (l *Ledger) UpdateItem(id string, in domain.ItemInput) (domain.LineItem, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.LineItem{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err := in.Validate(); err != nil {
		return domain.LineItem{}, err
	}

	item := &l.items[idx]
	item.Description = in.Description
	item.Pieces = in.Pieces
	item.Carats = in.Carats
	item.Price = in.Price
	item.Amount = in.Amount()

	l.notify()
	return *item, nil
}

// RemoveItem deletes the item with the given ID. Unknown IDs are ignored.
func (l *Ledger) RemoveItem(id string) {
	idx := l.indexOf(id)
	if idx < 0 {
		return
	}
	l.items = append(l.items[:idx:idx], l.items[idx+1:]...)
	l.notify()
}

// SetDiscount sets the whole-invoice discount percentage. Zero means no discount.
func (l *Ledger) SetDiscount(pct decimal.Decimal) error {
	if err := domain.ValidateDiscount(pct); err != nil {
		return err
	}
	l.discount = pct
	l.notify()
	return nil
}

// ClearDiscount removes the discount
func (l *Ledger) ClearDiscount() {
	_ = l.SetDiscount(decimal.Zero)
}

// SetFromAddress replaces the sender address
func (l *Ledger) SetFromAddress(addr domain.Address) {
	l.from = addr
}

// SetToAddress replaces the recipient address
func (l *Ledger) SetToAddress(addr domain.Address) {
	l.to = &addr
}

// ClearToAddress unsets the recipient address
func (l *Ledger) ClearToAddress() {
	l.to = nil
}

// Reset starts a new invoice. The sender address is kept.
func (l *Ledger) Reset() {
	l.items = make([]domain.LineItem, 0)
	l.to = nil
	l.discount = decimal.Zero
	l.notify()
}

// Items returns a copy of the line items in order
func (l *Ledger) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Item returns the item with the given ID
func (l *Ledger) Item(id string) (domain.LineItem, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.LineItem{}, false
	}
	return l.items[idx], true
}

// Len returns the number of line items
func (l *Ledger) Len() int {
	return len(l.items)
}

// From returns the sender address
func (l *Ledger) From() domain.Address {
	return l.from
}

// To returns the recipient address, or nil if unset
func (l *Ledger) To() *domain.Address {
	if l.to == nil {
		return nil
	}
	to := *l.to
	return &to
}

// Discount returns the discount percentage
func (l *Ledger) Discount() decimal.Decimal {
	return l.discount
}

// Totals recomputes subtotal, discount and total from the current items
func (l *Ledger) Totals() domain.Totals {
	return domain.CalculateTotals(l.items, l.discount)
}

// Snapshot captures the current state for rendering. Later mutations do not
// affect the returned value.
func (l *Ledger) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Items:              l.Items(),
		From:               l.from,
		To:                 l.To(),
		DiscountPercentage: l.discount,
		Totals:             l.Totals(),
		TakenAt:            l.now(),
	}
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}
