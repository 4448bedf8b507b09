package render

import (
	"fmt"
	"testing"
	"time"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issued = time.Date(2026, time.March, 5, 10, 30, 0, 0, time.UTC)

func item(desc string, pieces int, carats, price string) domain.LineItem {
	c := decimal.RequireFromString(carats)
	p := decimal.RequireFromString(price)
	return domain.LineItem{
		ID:          desc,
		Description: desc,
		Pieces:      pieces,
		Carats:      c,
		Price:       p,
		Amount:      c.Mul(p),
	}
}

func snapshot(items []domain.LineItem, pct string) domain.Snapshot {
	discount := decimal.RequireFromString(pct)
	to := domain.Address{Name: "Buyer Ltd", City: "Mumbai"}
	return domain.Snapshot{
		Items:              items,
		From:               domain.DefaultFromAddress(),
		To:                 &to,
		DiscountPercentage: discount,
		Totals:             domain.CalculateTotals(items, discount),
		TakenAt:            issued,
	}
}

func manyItems(n int) []domain.LineItem {
	items := make([]domain.LineItem, n)
	for i := range items {
		items[i] = item(fmt.Sprintf("Stone %d", i+1), 1, "1", "10")
	}
	return items
}

func TestLayoutHeader(t *testing.T) {
	doc := Layout(snapshot(manyItems(1), "0"), DefaultOptions())

	texts := doc.Texts()
	assert.Equal(t, "INVOICE", texts[0])
	assert.Equal(t, "Date: 05 March 2026", texts[1])
	assert.Equal(t, "Invoice #: INV-001", texts[2])
	assert.Contains(t, texts, "From:")
	assert.Contains(t, texts, "To:")
	assert.Contains(t, texts, "Your Company Name")
	assert.Contains(t, texts, "Buyer Ltd")
}

func TestLayoutDateFollowsSnapshot(t *testing.T) {
	s := snapshot(manyItems(1), "0")
	s.TakenAt = time.Date(2027, time.January, 9, 23, 59, 0, 0, time.UTC)

	doc := Layout(s, DefaultOptions())
	assert.Equal(t, "Date: 09 January 2027", doc.Texts()[1])
	assert.Equal(t, s.TakenAt, doc.Issued)
}

func TestLayoutRowValues(t *testing.T) {
	doc := Layout(snapshot([]domain.LineItem{item("Ruby", 2, "1.5", "1200")}, "0"), DefaultOptions())

	texts := doc.Texts()
	assert.Contains(t, texts, "Ruby")
	assert.Contains(t, texts, "2")
	assert.Contains(t, texts, "1.5")
	assert.Contains(t, texts, "1,200.00")
	assert.Contains(t, texts, "1,800.00")
	for _, s := range texts {
		assert.NotContains(t, s, "₹")
	}
}

func TestLayoutDiscountLineOnlyWhenPositive(t *testing.T) {
	items := []domain.LineItem{item("Diamond", 1, "2", "100")}

	withDiscount := Layout(snapshot(items, "12.5"), DefaultOptions()).Texts()
	assert.Contains(t, withDiscount, "Discount (12.5%)")
	assert.Contains(t, withDiscount, "25.00")
	assert.Contains(t, withDiscount, "175.00")

	without := Layout(snapshot(items, "0"), DefaultOptions()).Texts()
	for _, s := range without {
		assert.NotContains(t, s, "Discount")
	}
	assert.Contains(t, without, "Subtotal")
	assert.Contains(t, without, "Total")
}

func TestLayoutTableStartsAtReferenceOffset(t *testing.T) {
	opts := DefaultOptions()
	doc := Layout(snapshot(manyItems(1), "0"), opts)

	for _, in := range doc.Instructions {
		if in.Text == "Description" {
			assert.Equal(t, opts.TableY, in.Y)
			return
		}
	}
	t.Fatal("table header not found")
}

func TestLayoutTablePushedBelowTallAddress(t *testing.T) {
	opts := DefaultOptions()
	opts.AddressLineHeight = 10
	doc := Layout(snapshot(manyItems(1), "0"), opts)

	// From has 4 lines: label at 52, lines at 62..92, bottom 102
	for _, in := range doc.Instructions {
		if in.Text == "Description" {
			assert.Equal(t, 110.0, in.Y)
			return
		}
	}
	t.Fatal("table header not found")
}

func TestLayoutPaginatesLongInvoices(t *testing.T) {
	opts := DefaultOptions()
	doc := Layout(snapshot(manyItems(40), "0"), opts)

	require.GreaterOrEqual(t, doc.PageCount(), 2)

	rows := 0
	for _, page := range doc.Pages() {
		for _, in := range page {
			if in.Kind == KindText {
				assert.LessOrEqual(t, in.Y+in.Height, opts.PageBottom, "text %q runs off the page", in.Text)
			}
			if in.Kind == KindText && in.X == opts.MarginLeft && len(in.Text) > 6 && in.Text[:6] == "Stone " {
				rows++
			}
		}
	}
	assert.Equal(t, 40, rows)
}

func TestLayoutRowsNeverSplit(t *testing.T) {
	doc := Layout(snapshot(manyItems(40), "0"), DefaultOptions())

	// every cell of a row sits on the same page at the same y
	for _, page := range doc.Pages() {
		ys := map[string]float64{}
		counts := map[string]int{}
		for _, in := range page {
			if in.Kind != KindText {
				continue
			}
			if len(in.Text) > 6 && in.Text[:6] == "Stone " {
				ys[in.Text] = in.Y
			}
		}
		for _, in := range page {
			for name, y := range ys {
				if in.Kind == KindText && in.Y == y && in.X >= 20 {
					counts[name]++
				}
			}
		}
		for name, n := range counts {
			assert.Equal(t, len(columns), n, "row %s", name)
		}
	}
}

func TestLayoutTotalsKeptTogether(t *testing.T) {
	opts := DefaultOptions()
	// fill the first page right up to the threshold
	n := 0
	for y := opts.TableY + opts.RowHeight; y <= opts.BreakThreshold; y += opts.RowHeight {
		n++
	}
	doc := Layout(snapshot(manyItems(n), "10"), opts)

	pages := doc.Pages()
	last := pages[len(pages)-1]
	labels := map[string]bool{}
	for _, in := range last {
		labels[in.Text] = true
	}
	assert.True(t, labels["Subtotal"])
	assert.True(t, labels["Discount (10%)"])
	assert.True(t, labels["Total"])
}

func TestLayoutIsDeterministic(t *testing.T) {
	s := snapshot(manyItems(12), "5")
	a := Layout(s, DefaultOptions())
	b := Layout(s, DefaultOptions())
	assert.Equal(t, a.Instructions, b.Instructions)
}

func TestLayoutTruncatesLongDescriptions(t *testing.T) {
	long := "Natural untreated Burmese pigeon blood ruby, oval cut"
	doc := Layout(snapshot([]domain.LineItem{item(long, 1, "1", "1")}, "0"), DefaultOptions())

	assert.Contains(t, doc.Texts(), "Natural untreated Burmese pigeon ...")
}

func TestLayoutMalformedValues(t *testing.T) {
	bad := domain.LineItem{
		ID:          "x",
		Description: "",
		Pieces:      -3,
		Carats:      decimal.RequireFromString("-1"),
		Price:       decimal.RequireFromString("-5"),
		Amount:      decimal.RequireFromString("5"),
	}
	s := domain.Snapshot{Items: []domain.LineItem{bad}, Totals: domain.CalculateTotals([]domain.LineItem{bad}, decimal.Zero)}

	assert.NotPanics(t, func() {
		doc := Layout(s, DefaultOptions())
		assert.Contains(t, doc.Texts(), "-3")
		assert.Contains(t, doc.Texts(), "-5.00")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "रत्न...", Truncate("रत्नजड़ित", 7))
	assert.Equal(t, "मोत...", Truncate("मोतीमाला", 6))
}
