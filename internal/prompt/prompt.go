// Package prompt asks the user short questions on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a prompt with ctrl+c or esc.
var ErrCancelled = errors.New("prompt cancelled")

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// Prompter asks questions through bubbletea programs.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// New returns a Prompter bound to stdin and stderr.
func New() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr}
}

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm asks a yes/no question. The default answer is no.
func (p *Prompter) Confirm(message string) (bool, error) {
	final, err := p.run(newConfirmModel(message))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.answer, nil
}

// Input asks for a line of text, returning fallback when the answer is empty.
func (p *Prompter) Input(message, fallback string) (string, error) {
	final, err := p.run(newInputModel(message, fallback))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.value(), nil
}

func (p *Prompter) run(model tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}

type confirmModel struct {
	message   string
	answer    bool
	done      bool
	cancelled bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n":
		m.answer = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		answer := "no"
		if m.answer {
			answer = "yes"
		}
		return questionStyle.Render(m.message) + " " + answer + "\n"
	}
	return questionStyle.Render(m.message) + " " + hintStyle.Render("[y/N]") + " "
}

type inputModel struct {
	message   string
	fallback  string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newInputModel(message, fallback string) inputModel {
	input := textinput.New()
	input.Placeholder = fallback
	input.Prompt = ""
	input.Focus()
	return inputModel{message: message, fallback: fallback, input: input}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return questionStyle.Render(m.message) + " " + m.value() + "\n"
	}
	return questionStyle.Render(m.message) + " " + m.input.View()
}

func (m inputModel) value() string {
	v := strings.TrimSpace(m.input.Value())
	if v == "" {
		return m.fallback
	}
	return v
}
