// ABOUTME: Whoami command for the postdeck CLI
// ABOUTME: Resolves the stored token to the account profile

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mlowther/postdeck/internal/api"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Long:  `Validate the stored session token against the backend and print the account profile. A rejected token is removed, leaving the client signed out.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami resolves the session and returns an exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	mgr := newManager()

	user, err := mgr.Resolve(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) || errors.Is(err, api.ErrSessionExpired) {
			fmt.Fprintln(w, "Not signed in")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, "Signed in as %s <%s> (id %d)\n", user.Name, user.Email, user.ID)
	return 0
}
