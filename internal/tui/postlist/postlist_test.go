// ABOUTME: Tests for the post list component
// ABOUTME: Covers cursor movement, selection, and row rendering

package postlist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlowther/postdeck/internal/api"
)

func samplePosts() []api.Post {
	return []api.Post{
		{ID: 3, Title: "third", CreatedAt: "2026-08-20T12:00:00Z"},
		{ID: 2, Title: "second", CreatedAt: "2026-08-15T12:00:00Z"},
		{ID: 1, Title: "first", CreatedAt: "2026-08-10T12:00:00Z"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestCursorMovement(t *testing.T) {
	m := New()
	m.SetPosts(samplePosts())

	if sel := m.Selected(); sel == nil || sel.ID != 3 {
		t.Fatal("expected first post selected initially")
	}

	m.Update(key("down"))
	if sel := m.Selected(); sel.ID != 2 {
		t.Errorf("expected second post after down, got %d", sel.ID)
	}

	m.Update(key("j"))
	m.Update(key("j")) // already at the end
	if sel := m.Selected(); sel.ID != 1 {
		t.Errorf("expected cursor pinned at last post, got %d", sel.ID)
	}

	m.Update(key("g"))
	if sel := m.Selected(); sel.ID != 3 {
		t.Errorf("expected home key to jump to top, got %d", sel.ID)
	}

	m.Update(key("G"))
	if sel := m.Selected(); sel.ID != 1 {
		t.Errorf("expected end key to jump to bottom, got %d", sel.ID)
	}
}

func TestSelectedOnEmptyList(t *testing.T) {
	m := New()
	if m.Selected() != nil {
		t.Error("expected nil selection on empty list")
	}
}

func TestCursorClampedAfterShrink(t *testing.T) {
	m := New()
	m.SetPosts(samplePosts())
	m.Update(key("G"))

	m.SetPosts(samplePosts()[:1])
	if sel := m.Selected(); sel == nil || sel.ID != 3 {
		t.Error("expected cursor clamped to remaining post")
	}
}

func TestViewShowsRows(t *testing.T) {
	m := New()
	m.SetPosts(samplePosts())

	view := m.View()
	for _, title := range []string{"third", "second", "first"} {
		if !strings.Contains(view, title) {
			t.Errorf("expected view to contain %q", title)
		}
	}
	if !strings.Contains(view, "#3") {
		t.Error("expected row meta to show the post id")
	}
}

func TestViewEmptyHint(t *testing.T) {
	m := New()
	if !strings.Contains(m.View(), "No posts yet") {
		t.Error("expected empty-list hint")
	}
}

func TestDeletingMarker(t *testing.T) {
	m := New()
	m.SetPosts(samplePosts())
	m.SetDeleting(2)

	if !strings.Contains(m.View(), "deleting") {
		t.Error("expected in-flight marker on the post being deleted")
	}

	m.SetDeleting(0)
	if strings.Contains(m.View(), "deleting") {
		t.Error("expected marker cleared")
	}
}

func TestWindowFollowsCursor(t *testing.T) {
	posts := make([]api.Post, 20)
	for i := range posts {
		posts[i] = api.Post{ID: i + 1, Title: "post", CreatedAt: "2026-08-01T00:00:00Z"}
	}

	m := New()
	m.SetHeight(5)
	m.SetPosts(posts)
	m.Update(key("G"))

	view := m.View()
	if !strings.Contains(view, "#20") {
		t.Error("expected last row visible when cursor is at the end")
	}
	if strings.Contains(view, "#1 ") {
		t.Error("expected first row scrolled out of the window")
	}
	if !strings.Contains(view, "20 of 20 posts") {
		t.Error("expected position indicator on overflow")
	}
}
