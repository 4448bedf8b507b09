package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/ledger"
	"github.com/andy/gemvoice/internal/money"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render an invoice file to PDF",
	Long: `Render an invoice described in a YAML or JSON file to PDF.

The file lists items, the recipient address and an optional discount.
When no "from" address is given, the saved sender address is used.

Examples:
  gemvoice render -f march.yaml
  gemvoice render -f march.yaml -o ~/Desktop/march.pdf --date 2026-03-31
  gemvoice render -f march.yaml --stdout > march.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		file, _ := cmd.Flags().GetString("file")
		output, _ := cmd.Flags().GetString("output")
		dateStr, _ := cmd.Flags().GetString("date")
		toStdout, _ := cmd.Flags().GetBool("stdout")

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read invoice file: %w", err)
		}

		inv, err := parseInvoiceFile(data)
		if err != nil {
			return err
		}

		var opts []ledger.Option
		if dateStr != "" {
			issued, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
			}
			opts = append(opts, ledger.WithClock(func() time.Time { return issued }))
		}

		l := appInstance.NewLedger(ctx, opts...)
		if err := inv.apply(l); err != nil {
			return fmt.Errorf("invalid invoice file: %w", err)
		}
		snapshot := l.Snapshot()
		exporter := appInstance.Exporter

		if toStdout {
			pdf, err := exporter.Render(ctx, snapshot)
			if err != nil {
				return exportError(err)
			}
			_, err = cmd.OutOrStdout().Write(pdf)
			return err
		}

		if output == "" {
			output = appInstance.Config.ExportPath()
		}
		written, err := exporter.Export(ctx, snapshot, output)
		if err != nil {
			return exportError(err)
		}

		symbol := appInstance.Config.Invoice.CurrencySymbol
		fmt.Printf("✓ Invoice written to %s\n", written)
		fmt.Printf("  Items:    %d\n", len(snapshot.Items))
		fmt.Printf("  Subtotal: %s\n", money.FormatCurrency(snapshot.Totals.Subtotal, symbol))
		if snapshot.HasDiscount() {
			fmt.Printf("  Discount: %s (%s%%)\n",
				money.FormatCurrency(snapshot.Totals.DiscountAmount, symbol),
				money.FormatQuantity(snapshot.DiscountPercentage))
		}
		fmt.Printf("  Total:    %s\n", money.FormatCurrency(snapshot.Totals.Total, symbol))
		return nil
	},
}

// exportError keeps the precondition message and hides render internals,
// which are in the log
func exportError(err error) error {
	if errors.Is(err, domain.ErrRenderFailure) {
		return fmt.Errorf("export failed; see %s for details", appInstance.Config.Log.Path)
	}
	return err
}

func init() {
	renderCmd.Flags().StringP("file", "f", "", "Invoice file (YAML or JSON)")
	renderCmd.Flags().StringP("output", "o", "", "Output path (default: <output_dir>/<file_name> from config)")
	renderCmd.Flags().String("date", "", "Issue date as YYYY-MM-DD (default: today)")
	renderCmd.Flags().Bool("stdout", false, "Write the PDF to standard output")
	_ = renderCmd.MarkFlagRequired("file")
}
