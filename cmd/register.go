// ABOUTME: Register command for the postdeck CLI
// ABOUTME: Creates an account and signs in with the issued token

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
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long:  `Register a new account on the backend. On success the issued token is stored, so a separate login is not needed.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout, registerName, registerEmail, registerPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(registerCmd)
}

// runRegister executes the registration flow and returns an exit code
func runRegister(ctx context.Context, w io.Writer, name, email, password string) int {
	confirmation := password
	if err := promptRegistration(&name, &email, &password, &confirmation); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	mgr := newManager()
	token, err := mgr.Client().Register(ctx, name, email, password, confirmation)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := mgr.SetToken(token); err != nil {
		fmt.Fprintf(w, "Account created, but saving the session failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(w, "Account created, signed in as %s\n", email)
	return 0
}

// promptRegistration asks interactively for whichever values are missing.
// A password given on the command line counts as its own confirmation.
func promptRegistration(name, email, password, confirmation *string) error {
	var fields []huh.Field
	if strings.TrimSpace(*name) == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(name))
	}
	if strings.TrimSpace(*email) == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	if *password == "" {
		fields = append(fields,
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(confirmation),
		)
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
