// ABOUTME: Scrollable post list for the dashboard screen
// ABOUTME: Tracks the cursor and renders rows with timestamps and in-flight markers

package postlist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlowther/postdeck/internal/api"
	"github.com/mlowther/postdeck/internal/store"
	"github.com/mlowther/postdeck/internal/tui/icons"
	"github.com/mlowther/postdeck/internal/tui/styles"
)

// Model is the post list component
type Model struct {
	posts      []api.Post
	cursor     int
	height     int
	deletingID int
}

// New creates an empty post list
func New() *Model {
	return &Model{height: 12}
}

// SetPosts replaces the list contents, clamping the cursor
func (m *Model) SetPosts(posts []api.Post) {
	m.posts = posts
	if m.cursor >= len(posts) {
		m.cursor = len(posts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetHeight sets how many rows are visible at once
func (m *Model) SetHeight(h int) {
	if h < 3 {
		h = 3
	}
	m.height = h
}

// SetDeleting marks a post whose delete request is still out. Zero clears it.
func (m *Model) SetDeleting(id int) {
	m.deletingID = id
}

// Selected returns the post under the cursor, or nil when the list is empty
func (m *Model) Selected() *api.Post {
	if len(m.posts) == 0 || m.cursor >= len(m.posts) {
		return nil
	}
	return &m.posts[m.cursor]
}

// Len returns the number of posts shown
func (m *Model) Len() int {
	return len(m.posts)
}

// Update handles cursor movement keys
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.posts) > 0 {
			m.cursor = len(m.posts) - 1
		}
	}

	return m, nil
}

// View renders the visible window of the list
func (m *Model) View() string {
	if len(m.posts) == 0 {
		return styles.Subtitle.Render("No posts yet. Press n to create one.")
	}

	start, end := m.window()

	var b strings.Builder
	for i := start; i < end; i++ {
		p := m.posts[i]
		b.WriteString(m.renderRow(p, i == m.cursor))
		b.WriteString("\n")
	}

	if len(m.posts) > m.height {
		b.WriteString(styles.Help.Render(
			fmt.Sprintf("%d of %d posts", m.cursor+1, len(m.posts))))
	}

	return b.String()
}

func (m *Model) renderRow(p api.Post, selected bool) string {
	prefix := "  "
	rowStyle := styles.NormalRow
	if selected {
		prefix = styles.KeyStyle.Render("> ")
		rowStyle = styles.SelectedRow
	}

	title := p.Title
	meta := fmt.Sprintf("#%d  %s", p.ID, store.FormatDate(p.CreatedAt))
	if p.UpdatedAt != "" && p.UpdatedAt != p.CreatedAt {
		meta += "  edited " + store.RelativeDate(p.UpdatedAt)
	}

	line := fmt.Sprintf("%s%s %s  %s",
		prefix,
		icons.Post.String(),
		rowStyle.Render(title),
		styles.RowMeta.Render(meta),
	)

	if p.ID == m.deletingID {
		line += "  " + styles.InFlight.Render("deleting…")
	}

	return line
}

// window returns the slice bounds keeping the cursor visible
func (m *Model) window() (int, int) {
	start := 0
	if m.cursor >= m.height {
		start = m.cursor - m.height + 1
	}
	end := start + m.height
	if end > len(m.posts) {
		end = len(m.posts)
	}
	return start, end
}
