package tui

import (
	"strconv"
	"strings"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/money"
)

// parseItemInput reads the item form. Syntax errors come back as
// domain.ValidationError; range checks are left to the ledger.
func parseItemInput(description, pieces, carats, price string) (domain.ItemInput, error) {
	in := domain.ItemInput{Description: strings.TrimSpace(description)}

	n, err := strconv.Atoi(strings.TrimSpace(pieces))
	if err != nil {
		return in, domain.ValidationError{Field: "pieces", Message: "must be a whole number"}
	}
	in.Pieces = n

	if in.Carats, err = money.Parse(carats); err != nil {
		return in, domain.ValidationError{Field: "carats", Message: err.Error()}
	}
	if in.Price, err = money.Parse(price); err != nil {
		return in, domain.ValidationError{Field: "price", Message: err.Error()}
	}
	return in, nil
}
