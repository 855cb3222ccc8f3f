// ABOUTME: Login command for the postdeck CLI
// ABOUTME: Exchanges credentials for a bearer token and persists it

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long:  `Authenticate against the backend with email and password. The issued token is stored in the config directory and used by every other command.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout, loginEmail, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

// runLogin executes the login flow and returns an exit code
func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	if err := promptCredentials(&email, &password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	mgr := newManager()
	token, err := mgr.Client().Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := mgr.SetToken(token); err != nil {
		fmt.Fprintf(w, "Signed in, but saving the session failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(w, "Signed in as %s\n", email)
	return 0
}

// promptCredentials asks interactively for whichever values are missing
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if strings.TrimSpace(*email) == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
