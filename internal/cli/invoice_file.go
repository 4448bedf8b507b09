package cli

import (
	"fmt"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/ledger"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// invoiceFile is the on-disk form of an invoice for the render command.
// JSON input works too since YAML is a superset of it.
type invoiceFile struct {
	Items              []invoiceFileItem `yaml:"items"`
	From               *domain.Address   `yaml:"from"`
	To                 *domain.Address   `yaml:"to"`
	DiscountPercentage decimal.Decimal   `yaml:"discountPercentage"`
}

type invoiceFileItem struct {
	Description string          `yaml:"description"`
	Pieces      int             `yaml:"pieces"`
	Carats      decimal.Decimal `yaml:"carats"`
	Price       decimal.Decimal `yaml:"price"`
}

func parseInvoiceFile(data []byte) (*invoiceFile, error) {
	var f invoiceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse invoice file: %w", err)
	}
	return &f, nil
}

// apply loads the file into l through the ledger's own operations, so the
// same validation applies as in the interactive editor
func (f *invoiceFile) apply(l *ledger.Ledger) error {
	for i, item := range f.Items {
		_, err := l.AddItem(domain.ItemInput{
			Description: item.Description,
			Pieces:      item.Pieces,
			Carats:      item.Carats,
			Price:       item.Price,
		})
		if err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	if f.From != nil {
		l.SetFromAddress(*f.From)
	}
	if f.To != nil {
		l.SetToAddress(*f.To)
	}

	if !f.DiscountPercentage.IsZero() {
		if err := l.SetDiscount(f.DiscountPercentage); err != nil {
			return err
		}
	}
	return nil
}
