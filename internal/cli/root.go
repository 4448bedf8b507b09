package cli

import (
	"github.com/andy/gemvoice/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "gemvoice",
	Short: "Build and export gemstone invoices from the terminal",
	Long: `Gemvoice builds invoices for pieces, carats and price per carat,
applies an optional discount, and exports a paginated A4 PDF.

By default, running gemvoice without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE:         launchTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(fromCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
