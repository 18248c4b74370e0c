// Package markdown renders task descriptions and details for the terminal.
package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/amonks/taskmanager/internal/ui"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

type renderer interface {
	Render(string) (string, error)
}

type rendererKey struct {
	width int
	color bool
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]renderer{}
)

// Render formats markdown text for terminal output, indented by indent
// spaces. When color is false the ASCII style is used. If glamour fails or
// panics the normalized input is returned as-is.
func Render(width, indent int, color bool, input string) string {
	value := ui.TrimTrailingNewlines(ui.NormalizeNewlines(input))
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if width < 1 {
		width = 1
	}
	if indent < 0 {
		indent = 0
	}
	renderWidth := max(width-indent, 1)

	rendered, err := safeRender(markdownRenderer(renderWidth, color), value)
	if err != nil {
		rendered = value
	}
	rendered = ui.TrimTrailingNewlines(rendered)
	rendered = trimLeadingBlankLines(rendered)
	if strings.TrimSpace(rendered) == "" {
		return ""
	}
	return ui.IndentBlock(rendered, indent)
}

func safeRender(r renderer, value string) (out string, err error) {
	if r == nil {
		return "", fmt.Errorf("no renderer")
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("render markdown: %v", recovered)
		}
	}()
	return r.Render(value)
}

func markdownRenderer(width int, color bool) renderer {
	key := rendererKey{width: width, color: color}
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[key]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	if color {
		style = styles.DarkStyleConfig
	}
	style.Document.Margin = uintPtr(0)
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}

func trimLeadingBlankLines(value string) string {
	lines := strings.Split(value, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func uintPtr(v uint) *uint { return &v }
