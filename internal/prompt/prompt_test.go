package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModelYes(t *testing.T) {
	m := newConfirmModel("Create?")

	next, cmd := m.Update(runes("y"))

	got := next.(confirmModel)
	if !got.answer || !got.done {
		t.Fatalf("expected confirmed answer, got %+v", got)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestConfirmModelDefaultsToNo(t *testing.T) {
	m := newConfirmModel("Create?")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := next.(confirmModel)
	if got.answer || !got.done {
		t.Fatalf("expected default no, got %+v", got)
	}
}

func TestConfirmModelIgnoresOtherKeys(t *testing.T) {
	m := newConfirmModel("Create?")

	next, cmd := m.Update(runes("x"))

	if next.(confirmModel).done || cmd != nil {
		t.Fatal("expected prompt to keep waiting")
	}
}

func TestConfirmModelCancel(t *testing.T) {
	m := newConfirmModel("Create?")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	if !next.(confirmModel).cancelled {
		t.Fatal("expected cancelled prompt")
	}
}

func TestInputModelFallback(t *testing.T) {
	m := newInputModel("Name:", "demo")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := next.(inputModel).value(); got != "demo" {
		t.Fatalf("expected fallback demo, got %q", got)
	}
}

func TestInputModelTyped(t *testing.T) {
	var model tea.Model = newInputModel("Name:", "demo")

	model, _ = model.Update(runes("api "))
	model, _ = model.Update(runes("server"))
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := model.(inputModel)
	if !got.done {
		t.Fatal("expected input to finish")
	}
	if got.value() != "api server" {
		t.Fatalf("expected typed value, got %q", got.value())
	}
}
