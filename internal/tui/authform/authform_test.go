// ABOUTME: Tests for the credential forms
// ABOUTME: Covers field validation and mode-specific layout

package authform

import (
	"strings"
	"testing"
)

func TestRequiredRejectsWhitespace(t *testing.T) {
	validate := required("email")

	if err := validate("   "); err == nil {
		t.Error("expected whitespace-only input rejected")
	}
	if err := validate(""); err == nil {
		t.Error("expected empty input rejected")
	}
	if err := validate("ada@example.com"); err != nil {
		t.Errorf("unexpected error for valid input: %v", err)
	}
}

func TestMatchesPassword(t *testing.T) {
	f := New(ModeRegister)
	f.password = "secret"

	if err := f.matchesPassword("different"); err == nil {
		t.Error("expected mismatch rejected")
	}
	if err := f.matchesPassword("secret"); err != nil {
		t.Errorf("unexpected error for matching confirmation: %v", err)
	}
}

func TestLoginModeOmitsNameField(t *testing.T) {
	login := New(ModeLogin)
	login.Init()
	if strings.Contains(login.View(), "Name") {
		t.Error("expected no name field in login mode")
	}

	register := New(ModeRegister)
	register.Init()
	view := register.View()
	if !strings.Contains(view, "Name") {
		t.Error("expected name field in register mode")
	}
	if !strings.Contains(view, "Confirm password") {
		t.Error("expected confirmation field in register mode")
	}
}

func TestModeString(t *testing.T) {
	if ModeLogin.String() != "login" || ModeRegister.String() != "register" {
		t.Error("unexpected mode names")
	}
}
