package cli

import (
	"context"
	"fmt"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/spf13/cobra"
)

var fromCmd = &cobra.Command{
	Use:   "from",
	Short: "Manage the saved sender address",
	Long:  `Show, edit, or reset the "from" address printed on every invoice.`,
}

var fromShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved sender address",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := appInstance.Addresses.Load(context.Background())
		if err != nil {
			return err
		}

		printAddress(addr)
		return nil
	},
}

var fromSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update fields of the sender address",
	Long: `Update fields of the sender address. Only the flags given are changed.

Examples:
  gemvoice from set --name "Shree Gems" --city Mumbai --state MH
  gemvoice from set --zip 400004`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		addr, err := appInstance.Addresses.Load(ctx)
		if err != nil {
			return err
		}

		fields := map[string]*string{
			"name":    &addr.Name,
			"street":  &addr.Street,
			"city":    &addr.City,
			"state":   &addr.State,
			"country": &addr.Country,
			"zip":     &addr.ZipCode,
		}
		changed := false
		for flag, field := range fields {
			if cmd.Flags().Changed(flag) {
				*field, _ = cmd.Flags().GetString(flag)
				changed = true
			}
		}
		if !changed {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		if err := appInstance.Addresses.Save(ctx, addr); err != nil {
			return fmt.Errorf("failed to save address: %w", err)
		}

		fmt.Println("✓ Sender address updated")
		printAddress(addr)
		return nil
	},
}

var fromResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default sender address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.Addresses.Reset(context.Background()); err != nil {
			return fmt.Errorf("failed to reset address: %w", err)
		}

		fmt.Println("✓ Sender address reset to default")
		printAddress(domain.DefaultFromAddress())
		return nil
	},
}

func printAddress(addr domain.Address) {
	lines := addr.Lines()
	if len(lines) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for _, line := range lines {
		fmt.Printf("  %s\n", line)
	}
}

func init() {
	fromSetCmd.Flags().String("name", "", "Company or person name")
	fromSetCmd.Flags().String("street", "", "Street address")
	fromSetCmd.Flags().String("city", "", "City")
	fromSetCmd.Flags().String("state", "", "State")
	fromSetCmd.Flags().String("country", "", "Country")
	fromSetCmd.Flags().String("zip", "", "Postal code")

	fromCmd.AddCommand(fromShowCmd)
	fromCmd.AddCommand(fromSetCmd)
	fromCmd.AddCommand(fromResetCmd)
}
