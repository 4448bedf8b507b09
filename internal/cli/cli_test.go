package cli

import (
	"strings"
	"testing"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
items:
  - description: Burmese ruby
    pieces: 2
    carats: 1.5
    price: 1200
  - description: Emerald
    pieces: 1
    carats: "0.75"
    price: 3000
to:
  name: Buyer Ltd
  city: Antwerp
discountPercentage: 10
`

func TestParseInvoiceFileYAML(t *testing.T) {
	f, err := parseInvoiceFile([]byte(sampleYAML))
	require.NoError(t, err)

	l := ledger.New()
	require.NoError(t, f.apply(l))

	snap := l.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Burmese ruby", snap.Items[0].Description)
	assert.True(t, snap.Items[0].Amount.Equal(decimal.RequireFromString("1800")))
	assert.True(t, snap.Totals.Subtotal.Equal(decimal.RequireFromString("4050")))
	assert.True(t, snap.Totals.Total.Equal(decimal.RequireFromString("3645")))
	require.NotNil(t, snap.To)
	assert.Equal(t, "Buyer Ltd", snap.To.Name)
	assert.Equal(t, domain.DefaultFromAddress(), snap.From)
}

func TestParseInvoiceFileJSON(t *testing.T) {
	data := `{"items":[{"description":"Opal","pieces":3,"carats":2,"price":50}],
	"from":{"name":"Seller"},"to":{"name":"Buyer"},"discountPercentage":0}`

	f, err := parseInvoiceFile([]byte(data))
	require.NoError(t, err)

	l := ledger.New()
	require.NoError(t, f.apply(l))
	assert.Equal(t, "Seller", l.From().Name)
	assert.True(t, l.Totals().Total.Equal(decimal.NewFromInt(100)))
}

func TestApplyRejectsInvalidItem(t *testing.T) {
	f, err := parseInvoiceFile([]byte("items:\n  - description: Pearl\n    pieces: 0\n    carats: 1\n    price: 1\n"))
	require.NoError(t, err)

	err = f.apply(ledger.New())
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)
	assert.Contains(t, err.Error(), "item 1")
}

func TestApplyRejectsInvalidDiscount(t *testing.T) {
	f, err := parseInvoiceFile([]byte("discountPercentage: 150\n"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.apply(ledger.New()), domain.ErrInvalidDiscount)
}

func TestConfirmPrompt(t *testing.T) {
	assert.True(t, confirmPrompt(strings.NewReader("y\n"), "ok?"))
	assert.True(t, confirmPrompt(strings.NewReader("YES\n"), "ok?"))
	assert.False(t, confirmPrompt(strings.NewReader("n\n"), "ok?"))
	assert.False(t, confirmPrompt(strings.NewReader(""), "ok?"))
}
