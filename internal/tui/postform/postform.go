// ABOUTME: Create/edit post form as a bubbletea model
// ABOUTME: Shares one buffer shape for both modes; emits SubmitMsg on completion

package postform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mlowther/postdeck/internal/api"
	"github.com/mlowther/postdeck/internal/tui/styles"
)

// SubmitMsg carries the completed form values. ID is zero for a new post.
type SubmitMsg struct {
	ID          int
	Title       string
	Description string
}

// CancelledMsg is sent when the user backs out; the buffer is discarded
type CancelledMsg struct{}

// Form is the post entry component. A nil post means create.
type Form struct {
	id   int
	form *huh.Form
	done bool

	title       string
	description string
}

// New creates the form, prefilled when editing an existing post
func New(post *api.Post) *Form {
	if post == nil {
		return NewWithValues(0, "", "")
	}
	return NewWithValues(post.ID, post.Title, post.Description)
}

// NewWithValues creates the form carrying previously entered values. Used
// to re-present a draft the server rejected so nothing typed is lost.
func NewWithValues(id int, title, description string) *Form {
	f := &Form{id: id, title: title, description: description}
	f.form = f.createForm()
	return f
}

func (f *Form) createForm() *huh.Form {
	title := "New post"
	if f.id != 0 {
		title = fmt.Sprintf("Edit post #%d", f.id)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("A fitting headline").
				CharLimit(200).
				Value(&f.title).
				Validate(nonEmpty("title")),
			huh.NewText().
				Title("Description").
				Placeholder("What is this about?").
				CharLimit(2000).
				Value(&f.description).
				Validate(nonEmpty("description")),
		).Title(title).
			Description("Esc to cancel"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted && !f.done {
		f.done = true
		submit := SubmitMsg{
			ID:          f.id,
			Title:       strings.TrimSpace(f.title),
			Description: strings.TrimSpace(f.description),
		}
		return f, func() tea.Msg { return submit }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

// Editing reports whether the form targets an existing post
func (f *Form) Editing() bool {
	return f.id != 0
}

// nonEmpty rejects empty or whitespace-only input
func nonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		return nil
	}
}
