package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLineItem    = errors.New("invalid line item")
	ErrInvalidDiscount    = errors.New("discount must be between 0 and 100")
	ErrNotFound           = errors.New("line item not found")
	ErrExportPrecondition = errors.New("invoice needs at least one item and a recipient address")
	ErrRenderFailure      = errors.New("failed to render invoice")
)

var hundred = decimal.NewFromInt(100)

// LineItem is one billable row. Amount is derived from Carats and Price
// and is only ever set by the ledger.
type LineItem struct {
	ID          string
	Description string
	Pieces      int
	Carats      decimal.Decimal
	Price       decimal.Decimal
	Amount      decimal.Decimal
}

// ItemInput carries the user-editable fields of a line item
type ItemInput struct {
	Description string
	Pieces      int
	Carats      decimal.Decimal
	Price       decimal.Decimal
}

// Validate returns an error wrapping ErrInvalidLineItem if the input is out of bounds
func (in ItemInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidLineItem)
	}
	if in.Pieces < 1 {
		return fmt.Errorf("%w: pieces must be at least 1", ErrInvalidLineItem)
	}
	if !in.Carats.IsPositive() {
		return fmt.Errorf("%w: carats must be greater than 0", ErrInvalidLineItem)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidLineItem)
	}
	return nil
}

// Amount returns carats × price
func (in ItemInput) Amount() decimal.Decimal {
	return in.Carats.Mul(in.Price)
}

// Input returns the editable fields of the item
func (li LineItem) Input() ItemInput {
	return ItemInput{
		Description: li.Description,
		Pieces:      li.Pieces,
		Carats:      li.Carats,
		Price:       li.Price,
	}
}

// Totals are derived from the item list and discount, never stored
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// CalculateTotals sums the items in order and applies a whole-invoice discount.
// Total is clamped at zero.
func CalculateTotals(items []LineItem, discountPercentage decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	discount := subtotal.Mul(discountPercentage).Div(hundred)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          total,
	}
}

// ValidateDiscount returns an error wrapping ErrInvalidDiscount if pct is outside [0, 100]
func ValidateDiscount(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: got %s", ErrInvalidDiscount, pct.String())
	}
	return nil
}

// Snapshot is an immutable copy of ledger state used for rendering.
type Snapshot struct {
	Items              []LineItem
	From               Address
	To                 *Address
	DiscountPercentage decimal.Decimal
	Totals             Totals
	TakenAt            time.Time // printed as the issue date
}

// HasDiscount returns true if a non-zero discount applies
func (s Snapshot) HasDiscount() bool {
	return s.DiscountPercentage.IsPositive()
}

// Exportable returns ErrExportPrecondition unless the snapshot has items and a recipient
func (s Snapshot) Exportable() error {
	if len(s.Items) == 0 {
		return fmt.Errorf("%w: no line items", ErrExportPrecondition)
	}
	if s.To == nil {
		return fmt.Errorf("%w: recipient address is not set", ErrExportPrecondition)
	}
	return nil
}

// ValidationError is a form-level input error, raised before values reach the ledger
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
