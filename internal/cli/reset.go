package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all saved settings",
	Long: `Delete everything stored in the settings database, including the
saved sender address. The config file and exported PDFs are not touched.

With --forget-key the database file itself is removed along with its
encryption key, and the next run asks for a new password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		forgetKey, _ := cmd.Flags().GetBool("forget-key")

		if !confirmPrompt(os.Stdin, "This will delete ALL saved settings, including your sender address. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if forgetKey {
			if err := appInstance.ForgetEncryption(); err != nil {
				return err
			}
			fmt.Println("Settings database and encryption key removed.")
			return nil
		}

		if err := appInstance.Settings.DeleteAll(context.Background()); err != nil {
			return err
		}

		fmt.Println("All saved settings have been deleted.")
		return nil
	},
}

func confirmPrompt(in io.Reader, message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.Flags().Bool("forget-key", false, "Also remove the database file and its encryption key")
}
