// ABOUTME: Logout command for the postdeck CLI
// ABOUTME: Revokes the token best-effort and clears local session state

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the session token",
	Long:  `Tell the backend to revoke the current token and remove it from the config directory. The local session is cleared even when the backend call fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout executes the sign-out flow and returns an exit code
func runLogout(ctx context.Context, w io.Writer) int {
	mgr := newManager()
	if !mgr.Authenticated() {
		fmt.Fprintln(w, "Not signed in")
		return 0
	}

	mgr.Logout(ctx)
	fmt.Fprintln(w, "Signed out")
	return 0
}
