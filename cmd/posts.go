// ABOUTME: Post CRUD commands for the postdeck CLI
// ABOUTME: list, create, update, and delete against the posts endpoint

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/mlowther/postdeck/internal/api"
	"github.com/mlowther/postdeck/internal/store"
	"github.com/spf13/cobra"
)

var (
	postTitle       string
	postDescription string
	deleteForce     bool
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Manage posts",
	Long:  `List, create, update, and delete posts. All subcommands require a stored session token; run "postdeck login" first.`,
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runPostsList)
	},
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runPostsCreate(ctx, w, postTitle, postDescription)
		})
	},
}

var postsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a post",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runPostsUpdate(ctx, w, args[0], postTitle, postDescription)
		})
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runPostsDelete(ctx, w, args[0], deleteForce)
		})
	},
}

func init() {
	postsCreateCmd.Flags().StringVar(&postTitle, "title", "", "Post title")
	postsCreateCmd.Flags().StringVar(&postDescription, "description", "", "Post description")
	postsUpdateCmd.Flags().StringVar(&postTitle, "title", "", "New title")
	postsUpdateCmd.Flags().StringVar(&postDescription, "description", "", "New description")
	postsDeleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip the confirmation prompt")

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCmd.AddCommand(postsUpdateCmd)
	postsCmd.AddCommand(postsDeleteCmd)
	rootCmd.AddCommand(postsCmd)
}

// runWithSignals wraps a command body with signal-aware context and exit
// code handling.
func runWithSignals(fn func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if exitCode := fn(ctx, os.Stdout); exitCode != 0 {
		os.Exit(exitCode)
	}
}

// postExitCode maps request errors onto exit codes: auth problems are 1,
// everything else 2.
func postExitCode(w io.Writer, err error) int {
	if errors.Is(err, api.ErrNoToken) {
		fmt.Fprintln(w, "Not signed in")
		return 1
	}
	if errors.Is(err, api.ErrSessionExpired) {
		fmt.Fprintln(w, "Session expired, sign in again")
		return 1
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return 2
}

func runPostsList(ctx context.Context, w io.Writer) int {
	mgr := newManager()

	posts, err := mgr.Client().ListPosts(ctx)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			mgr.Clear()
		}
		return postExitCode(w, err)
	}

	cache := store.NewPosts()
	cache.Replace(posts)

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(cache.Sorted(), "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if cache.Len() == 0 {
		fmt.Fprintln(w, "No posts")
		return 0
	}

	for _, p := range cache.Sorted() {
		fmt.Fprintf(w, "#%-4d %s  (%s)\n", p.ID, p.Title, store.FormatDate(p.CreatedAt))
	}
	return 0
}

func runPostsCreate(ctx context.Context, w io.Writer, title, description string) int {
	mgr := newManager()

	post, err := mgr.Client().CreatePost(ctx, title, description)
	if err != nil {
		return postExitCode(w, err)
	}

	fmt.Fprintf(w, "Created post #%d\n", post.ID)
	return 0
}

func runPostsUpdate(ctx context.Context, w io.Writer, idArg, title, description string) int {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid post id %q\n", idArg)
		return 1
	}

	mgr := newManager()
	post, err := mgr.Client().UpdatePost(ctx, id, title, description)
	if err != nil {
		return postExitCode(w, err)
	}

	fmt.Fprintf(w, "Updated post #%d\n", post.ID)
	return 0
}

func runPostsDelete(ctx context.Context, w io.Writer, idArg string, force bool) int {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid post id %q\n", idArg)
		return 1
	}

	if !force {
		confirmed, err := confirmDelete(id)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
		if !confirmed {
			fmt.Fprintln(w, "Aborted")
			return 0
		}
	}

	mgr := newManager()
	if err := mgr.Client().DeletePost(ctx, id); err != nil {
		return postExitCode(w, err)
	}

	fmt.Fprintf(w, "Deleted post #%d\n", id)
	return 0
}

// confirmDelete prompts before an irreversible delete
func confirmDelete(id int) (bool, error) {
	confirmed := false
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete post #%d?", id)).
			Description("This cannot be undone.").
			Value(&confirmed),
	)).Run()
	return confirmed, err
}
