// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mlowther/postdeck/internal/api"
	"github.com/mlowther/postdeck/internal/logger"
	"github.com/mlowther/postdeck/internal/session"
	"github.com/mlowther/postdeck/internal/store"
	"github.com/mlowther/postdeck/internal/tui/authform"
	"github.com/mlowther/postdeck/internal/tui/icons"
	"github.com/mlowther/postdeck/internal/tui/postform"
	"github.com/mlowther/postdeck/internal/tui/postlist"
	"github.com/mlowther/postdeck/internal/tui/styles"
	"github.com/mlowther/postdeck/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenAuthForm
	ScreenDashboard
	ScreenPostForm
	ScreenConfirmDelete
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before clamping the frame
	activityDays     = 14 // Days of creation history in the sparkline
)

// loggedInMsg is sent when a login or register request completes. The
// submitted values ride along so a rejected attempt can re-present them.
type loggedInMsg struct {
	token     string
	err       error
	submitted authform.SubmitMsg
}

// sessionResolvedMsg is sent when the persisted token has been checked
type sessionResolvedMsg struct {
	user *api.User
	err  error
}

// postsLoadedMsg is sent when the post list fetch completes
type postsLoadedMsg struct {
	posts []api.Post
	err   error
}

// postSavedMsg is sent when a create or update request completes. The
// submitted draft rides along so a failed save does not lose it.
type postSavedMsg struct {
	post      *api.Post
	created   bool
	err       error
	submitted postform.SubmitMsg
}

// postDeletedMsg is sent when a delete request completes
type postDeletedMsg struct {
	id  int
	err error
}

// loggedOutMsg is sent when sign-out has finished
type loggedOutMsg struct{}

// menu entries, in display order
var menuItems = []string{"Sign in", "Create account", "Quit"}

// App is the root model for the TUI
type App struct {
	mgr    *session.Manager
	screen Screen
	width  int
	height int

	// banner holds the last error or notice; any keypress dismisses it
	banner     string
	bannerErr  bool
	user       *api.User
	posts      *store.Posts
	lastUpdate time.Time
	inFlight   string // label for the request currently out, empty when idle
	menuCursor int

	// Child models
	list          *postlist.Model
	authView      *authform.Form
	postView      *postform.Form
	confirmTarget *api.Post
	spin          spinner.Model
}

// New creates a new TUI application
func New(mgr *session.Manager) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Warning)

	return &App{
		mgr:    mgr,
		screen: ScreenMenu,
		posts:  store.NewPosts(),
		list:   postlist.New(),
		spin:   sp,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick}
	if a.mgr.Authenticated() {
		// A persisted token exists; try to resume the session. Failure
		// falls back to the menu without surfacing an error.
		a.screen = ScreenDashboard
		a.inFlight = "resuming session"
		cmds = append(cmds, a.resolveSession())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetHeight(a.contentHeight() - 6)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Any keypress dismisses the banner
		a.banner = ""

		switch a.screen {
		case ScreenMenu:
			return a.updateMenu(msg)
		case ScreenAuthForm:
			return a.updateAuthForm(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenPostForm:
			return a.updatePostForm(msg)
		case ScreenConfirmDelete:
			return a.updateConfirmDelete(msg)
		}

	case authform.SubmitMsg:
		return a.handleAuthSubmit(msg)

	case authform.CancelledMsg:
		a.screen = ScreenMenu
		a.authView = nil
		return a, nil

	case postform.SubmitMsg:
		return a.handlePostSubmit(msg)

	case postform.CancelledMsg:
		a.screen = ScreenDashboard
		a.postView = nil
		return a, nil

	case loggedInMsg:
		return a.handleLoggedIn(msg)

	case sessionResolvedMsg:
		return a.handleSessionResolved(msg)

	case postsLoadedMsg:
		return a.handlePostsLoaded(msg)

	case postSavedMsg:
		return a.handlePostSaved(msg)

	case postDeletedMsg:
		return a.handlePostDeleted(msg)

	case loggedOutMsg:
		a.resetToMenu()
		a.setNotice("Signed out")
		return a, nil

	default:
		// Forward unknown messages to the active form (needed for huh
		// form internals)
		if a.screen == ScreenAuthForm && a.authView != nil {
			_, cmd := a.authView.Update(msg)
			return a, cmd
		}
		if a.screen == ScreenPostForm && a.postView != nil {
			_, cmd := a.postView.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case "down", "j":
		if a.menuCursor < len(menuItems)-1 {
			a.menuCursor++
		}
	case "enter":
		switch a.menuCursor {
		case 0:
			a.authView = authform.New(authform.ModeLogin)
			a.screen = ScreenAuthForm
			return a, a.authView.Init()
		case 1:
			a.authView = authform.New(authform.ModeRegister)
			a.screen = ScreenAuthForm
			return a, a.authView.Init()
		case 2:
			return a, tea.Quit
		}
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) updateAuthForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.authView == nil {
		return a, nil
	}
	_, cmd := a.authView.Update(msg)
	return a, cmd
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "n":
		a.postView = postform.New(nil)
		a.screen = ScreenPostForm
		return a, a.postView.Init()
	case "e", "enter":
		if selected := a.list.Selected(); selected != nil {
			a.postView = postform.New(selected)
			a.screen = ScreenPostForm
			return a, a.postView.Init()
		}
	case "d":
		if selected := a.list.Selected(); selected != nil {
			a.confirmTarget = selected
			a.screen = ScreenConfirmDelete
		}
	case "r":
		a.inFlight = "refreshing"
		return a, a.loadPosts()
	case "x":
		a.inFlight = "signing out"
		return a, a.logout()
	}

	a.list, _ = a.list.Update(msg)
	return a, nil
}

func (a *App) updatePostForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.postView == nil {
		return a, nil
	}
	_, cmd := a.postView.Update(msg)
	return a, cmd
}

func (a *App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := a.confirmTarget
	switch msg.String() {
	case "y", "enter":
		a.screen = ScreenDashboard
		a.confirmTarget = nil
		if target != nil {
			a.inFlight = "deleting"
			a.list.SetDeleting(target.ID)
			return a, a.deletePost(target.ID)
		}
	case "n", "esc":
		// Declined: no request leaves the client
		a.screen = ScreenDashboard
		a.confirmTarget = nil
	}
	return a, nil
}

func (a *App) handleAuthSubmit(msg authform.SubmitMsg) (tea.Model, tea.Cmd) {
	a.inFlight = "signing in"
	if msg.Mode == authform.ModeRegister {
		a.inFlight = "creating account"
	}
	slog.Debug("credentials submitted", "mode", msg.Mode.String())
	return a, a.submitCredentials(msg)
}

func (a *App) handleLoggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	a.inFlight = ""
	if msg.err != nil {
		slog.Debug("authentication failed", "error", msg.err)
		a.setError(msg.err.Error())
		// The completed form cannot resubmit; re-present it with the
		// identity fields kept so only the password is retyped
		a.authView = authform.NewWithValues(msg.submitted.Mode, msg.submitted.Name, msg.submitted.Email)
		a.screen = ScreenAuthForm
		return a, a.authView.Init()
	}

	if err := a.mgr.SetToken(msg.token); err != nil {
		a.setError("signed in, but saving the session failed: " + err.Error())
	}
	a.authView = nil
	a.screen = ScreenDashboard
	a.inFlight = "loading profile"
	return a, a.resolveSession()
}

func (a *App) handleSessionResolved(msg sessionResolvedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The manager already cleared the rejected token; just land on
		// the menu as signed out.
		slog.Debug("session did not resume", "error", msg.err)
		a.resetToMenu()
		return a, nil
	}

	a.user = msg.user
	a.inFlight = "loading posts"
	return a, a.loadPosts()
}

func (a *App) handlePostsLoaded(msg postsLoadedMsg) (tea.Model, tea.Cmd) {
	a.inFlight = ""
	if msg.err != nil {
		return a.handleRequestError(msg.err)
	}

	a.posts.Replace(msg.posts)
	a.list.SetPosts(a.posts.Sorted())
	a.lastUpdate = time.Now()
	return a, nil
}

func (a *App) handlePostSaved(msg postSavedMsg) (tea.Model, tea.Cmd) {
	a.inFlight = ""
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrSessionExpired) || errors.Is(msg.err, api.ErrNoToken) {
			return a.handleRequestError(msg.err)
		}
		// Keep the draft: re-present the form with the typed values so a
		// transient failure loses nothing
		a.setError(msg.err.Error())
		a.postView = postform.NewWithValues(msg.submitted.ID, msg.submitted.Title, msg.submitted.Description)
		a.screen = ScreenPostForm
		return a, a.postView.Init()
	}

	a.postView = nil
	a.screen = ScreenDashboard

	if msg.created {
		a.setNotice(fmt.Sprintf("Created post #%d", msg.post.ID))
	} else {
		a.setNotice(fmt.Sprintf("Updated post #%d", msg.post.ID))
	}

	// The server may have normalized fields; re-fetch rather than guess
	a.inFlight = "refreshing"
	return a, a.loadPosts()
}

func (a *App) handlePostDeleted(msg postDeletedMsg) (tea.Model, tea.Cmd) {
	a.inFlight = ""
	a.list.SetDeleting(0)
	if msg.err != nil {
		return a.handleRequestError(msg.err)
	}

	// Drop locally instead of re-fetching; the server confirmed the delete
	a.posts.Remove(msg.id)
	a.list.SetPosts(a.posts.Sorted())
	a.setNotice(fmt.Sprintf("Deleted post #%d", msg.id))
	return a, nil
}

// handleRequestError routes failed requests: an expired session sends the
// user back to the menu, anything else lands in the banner.
func (a *App) handleRequestError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrNoToken) {
		a.mgr.Clear()
		a.resetToMenu()
		a.setError("Session expired, sign in again")
		return a, nil
	}
	a.setError(err.Error())
	return a, nil
}

// resetToMenu drops all authenticated state and shows the menu
func (a *App) resetToMenu() {
	a.screen = ScreenMenu
	a.user = nil
	a.posts = store.NewPosts()
	a.list.SetPosts(nil)
	a.authView = nil
	a.postView = nil
	a.confirmTarget = nil
	a.inFlight = ""
	a.menuCursor = 0
}

func (a *App) setError(text string) {
	a.banner = text
	a.bannerErr = true
}

func (a *App) setNotice(text string) {
	a.banner = text
	a.bannerErr = false
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenAuthForm:
		content = a.viewAuthForm()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenPostForm:
		content = a.viewPostForm()
	case ScreenConfirmDelete:
		content = a.viewConfirmDelete()
	default:
		content = a.viewMenu()
	}

	return a.wrapWithFrame(content)
}

// viewMenu renders the entry menu
func (a *App) viewMenu() string {
	var b strings.Builder
	b.WriteString(a.viewBanner())
	b.WriteString(styles.Title.Render(icons.Lock.String() + " Welcome"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Sign in to manage your posts"))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		if i == a.menuCursor {
			b.WriteString(styles.KeyStyle.Render("> "))
			b.WriteString(styles.SelectedRow.Render(item))
		} else {
			b.WriteString("  ")
			b.WriteString(styles.NormalRow.Render(item))
		}
		b.WriteString("\n")
	}

	return styles.Panel.Render(b.String())
}

func (a *App) viewAuthForm() string {
	if a.authView == nil {
		return ""
	}
	return a.viewBanner() + a.viewInFlight() + a.authView.View()
}

// viewDashboard renders the post list with a stats strip above it
func (a *App) viewDashboard() string {
	var b strings.Builder
	b.WriteString(a.viewBanner())
	b.WriteString(a.viewInFlight())

	// Stats strip: count, freshest edit, creation activity
	stats := fmt.Sprintf("%s %s", icons.Post.String(),
		styles.ValueStyle.Render(fmt.Sprintf("%d posts", a.posts.Len())))
	if last := a.posts.LastUpdated(); last != nil {
		stats += styles.RowMeta.Render(
			fmt.Sprintf("   last edit %s", store.RelativeDate(last.UpdatedAt)))
	}
	if a.posts.Len() > 0 {
		stats += "   " + icons.Chart.String() + " " +
			widgets.Sparkline(a.posts.Activity(activityDays), activityDays, styles.Secondary)
	}
	b.WriteString(stats)
	b.WriteString("\n\n")

	b.WriteString(a.list.View())

	return styles.ActivePanel.Render(b.String())
}

func (a *App) viewPostForm() string {
	if a.postView == nil {
		return ""
	}
	return a.viewBanner() + a.viewInFlight() + a.postView.View()
}

// viewConfirmDelete renders the delete confirmation prompt
func (a *App) viewConfirmDelete() string {
	if a.confirmTarget == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(icons.Trash.String() + " Delete post"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Delete %s (#%d)?\n",
		styles.ValueStyle.Render(a.confirmTarget.Title), a.confirmTarget.ID))
	b.WriteString(styles.Subtitle.Render("This cannot be undone."))
	b.WriteString("\n\n")
	b.WriteString(styles.KeyStyle.Render("y") + styles.Help.Render(" delete   "))
	b.WriteString(styles.KeyStyle.Render("n") + styles.Help.Render(" keep it"))

	return styles.ActivePanel.Render(b.String())
}

func (a *App) viewBanner() string {
	if a.banner == "" {
		return ""
	}
	if a.bannerErr {
		return styles.ErrorBanner.Render(a.banner) + "\n\n"
	}
	return styles.StatusOK.Render(a.banner) + "\n\n"
}

func (a *App) viewInFlight() string {
	if a.inFlight == "" {
		return ""
	}
	return a.spin.View() + styles.InFlight.Render(a.inFlight+"…") + "\n\n"
}

// renderHeader creates the header bar with app branding and session state
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("postdeck"))

	name := ""
	if a.user != nil {
		name = a.user.Name
	}
	rightText := widgets.SessionBadge(a.mgr.Authenticated(), name) + " "

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenAuthForm:
		shortcuts = []string{"Tab Next field", "Enter Submit", "Esc Back"}
	case ScreenDashboard:
		shortcuts = []string{"↑↓ Move", "n New", "e Edit", "d Delete", "r Refresh", "x Sign out", "q Quit"}
	case ScreenPostForm:
		shortcuts = []string{"Tab Next field", "Enter Submit", "Esc Cancel"}
	case ScreenConfirmDelete:
		shortcuts = []string{"y Delete", "n Keep"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenDashboard {
		elapsed := humanize.Time(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// contentHeight is the space left between header and footer
func (a *App) contentHeight() int {
	return a.height - 4
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

// submitCredentials sends the login or register request
func (a *App) submitCredentials(msg authform.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		var token string
		var err error
		if msg.Mode == authform.ModeRegister {
			token, err = a.mgr.Client().Register(context.Background(),
				msg.Name, msg.Email, msg.Password, msg.Confirmation)
		} else {
			token, err = a.mgr.Client().Login(context.Background(), msg.Email, msg.Password)
		}
		return loggedInMsg{token: token, err: err, submitted: msg}
	}
}

// resolveSession validates the held token and fetches the profile
func (a *App) resolveSession() tea.Cmd {
	return func() tea.Msg {
		user, err := a.mgr.Resolve(context.Background())
		return sessionResolvedMsg{user: user, err: err}
	}
}

// loadPosts fetches the post list
func (a *App) loadPosts() tea.Cmd {
	return func() tea.Msg {
		posts, err := a.mgr.Client().ListPosts(context.Background())
		return postsLoadedMsg{posts: posts, err: err}
	}
}

// savePost creates or updates depending on the form's target
func (a *App) savePost(msg postform.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		if msg.ID == 0 {
			post, err := a.mgr.Client().CreatePost(context.Background(), msg.Title, msg.Description)
			return postSavedMsg{post: post, created: true, err: err, submitted: msg}
		}
		post, err := a.mgr.Client().UpdatePost(context.Background(), msg.ID, msg.Title, msg.Description)
		return postSavedMsg{post: post, err: err, submitted: msg}
	}
}

// deletePost issues the delete for the confirmed post
func (a *App) deletePost(id int) tea.Cmd {
	return func() tea.Msg {
		err := a.mgr.Client().DeletePost(context.Background(), id)
		return postDeletedMsg{id: id, err: err}
	}
}

// logout notifies the backend and clears the session
func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		a.mgr.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func (a *App) handlePostSubmit(msg postform.SubmitMsg) (tea.Model, tea.Cmd) {
	a.inFlight = "saving"
	slog.Debug("post submitted", "id", msg.ID)
	return a, a.savePost(msg)
}

// Run starts the TUI. The alternate screen owns the terminal, so slog is
// redirected to a file in the config directory for the program's lifetime.
func Run(mgr *session.Manager) error {
	if f, err := openDebugLog(session.DefaultConfigDir()); err == nil {
		defer f.Close()
		logger.InitWriter(f, "debug", "text")
	}

	p := tea.NewProgram(
		New(mgr),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// openDebugLog opens (appending) the session debug log, creating the
// config directory if needed. The file is user-only like the session file.
func openDebugLog(configDir string) (*os.File, error) {
	if configDir == "" {
		return nil, errors.New("no config directory")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
}
