// ABOUTME: Sign-in and registration forms as bubbletea models
// ABOUTME: Uses huh forms; emits SubmitMsg with the collected credentials

package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mlowther/postdeck/internal/tui/styles"
)

// Mode selects which credential form is shown
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// String returns the mode name for labels and logs
func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// SubmitMsg carries the completed form values. Name and Confirmation are
// only set in register mode.
type SubmitMsg struct {
	Mode         Mode
	Name         string
	Email        string
	Password     string
	Confirmation string
}

// CancelledMsg is sent when the user backs out of the form
type CancelledMsg struct{}

// Form is the credential entry component
type Form struct {
	mode Mode
	form *huh.Form
	done bool

	name         string
	email        string
	password     string
	confirmation string
}

// New creates a credential form for the given mode
func New(mode Mode) *Form {
	return NewWithValues(mode, "", "")
}

// NewWithValues creates a credential form with the identity fields
// prefilled. Used after a rejected submission so only the password has to
// be typed again.
func NewWithValues(mode Mode, name, email string) *Form {
	f := &Form{mode: mode, name: name, email: email}
	f.form = f.createForm()
	return f
}

func (f *Form) createForm() *huh.Form {
	var fields []huh.Field

	if f.mode == ModeRegister {
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Placeholder("Ada Lovelace").
				Value(&f.name).
				Validate(required("name")),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&f.email).
			Validate(required("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&f.password).
			Validate(required("password")),
	)

	if f.mode == ModeRegister {
		fields = append(fields,
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&f.confirmation).
				Validate(f.matchesPassword),
		)
	}

	title := "Sign in"
	description := "Enter your credentials, Esc to go back"
	if f.mode == ModeRegister {
		title = "Create account"
		description = "Fill in your details, Esc to go back"
	}

	return huh.NewForm(
		huh.NewGroup(fields...).
			Title(title).
			Description(description),
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
			Mode:         f.mode,
			Name:         strings.TrimSpace(f.name),
			Email:        strings.TrimSpace(f.email),
			Password:     f.password,
			Confirmation: f.confirmation,
		}
		return f, func() tea.Msg { return submit }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

// Mode returns which credential form this is
func (f *Form) Mode() Mode {
	return f.mode
}

// required rejects empty or whitespace-only input
func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// matchesPassword enforces the confirmation field
func (f *Form) matchesPassword(s string) error {
	if s != f.password {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}
