// ABOUTME: Dash command for the postdeck CLI
// ABOUTME: Launches the interactive full-screen dashboard

package cmd

import (
	"fmt"
	"os"

	"github.com/mlowther/postdeck/internal/tui"
	"github.com/spf13/cobra"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive dashboard",
	Long:  `Launch the full-screen terminal dashboard. A stored session is resumed automatically; otherwise the sign-in menu is shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := tui.Run(newManager()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}
