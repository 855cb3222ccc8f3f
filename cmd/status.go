// ABOUTME: Status command for the postdeck CLI
// ABOUTME: Shows session state and post statistics in one shot

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
	"github.com/mlowther/postdeck/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and post statistics",
	Long:  `Display who is signed in and a summary of the post list: count, newest post, and the most recent edit. Profile and posts are fetched in parallel.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStatus(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the aggregate the status command prints
type statusReport struct {
	User      *api.User `json:"user"`
	PostCount int       `json:"post_count"`
	Newest    *api.Post `json:"newest_post,omitempty"`
	LastEdit  *api.Post `json:"last_edited_post,omitempty"`
}

// runStatus fetches profile and posts concurrently and returns an exit code
func runStatus(ctx context.Context, w io.Writer) int {
	mgr := newManager()
	if !mgr.Authenticated() {
		fmt.Fprintln(w, "Not signed in")
		return 1
	}

	var (
		user  *api.User
		posts []api.Post
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = mgr.Resolve(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = mgr.Client().ListPosts(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			mgr.Clear()
			fmt.Fprintln(w, "Session expired, sign in again")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	cache := store.NewPosts()
	cache.Replace(posts)

	report := &statusReport{
		User:      user,
		PostCount: cache.Len(),
		LastEdit:  cache.LastUpdated(),
	}
	if sorted := cache.Sorted(); len(sorted) > 0 {
		report.Newest = &sorted[0]
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatStatusJSON(report))
	} else {
		fmt.Fprintln(w, formatStatusHuman(report))
	}
	return 0
}

// formatStatusHuman formats the report for human readability
func formatStatusHuman(report *statusReport) string {
	out := fmt.Sprintf("Account:  %s <%s>\nPosts:    %d",
		report.User.Name, report.User.Email, report.PostCount)

	if report.Newest != nil {
		out += fmt.Sprintf("\nNewest:   %q (%s)",
			report.Newest.Title, store.RelativeDate(report.Newest.CreatedAt))
	}
	if report.LastEdit != nil {
		out += fmt.Sprintf("\nEdited:   %q (%s)",
			report.LastEdit.Title, store.RelativeDate(report.LastEdit.UpdatedAt))
	}
	return out
}

// formatStatusJSON formats the report as JSON
func formatStatusJSON(report *statusReport) string {
	data, _ := json.MarshalIndent(report, "", "  ")
	return string(data)
}
