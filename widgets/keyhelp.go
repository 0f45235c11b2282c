package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/note"
)

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []key.Binding
}

// RenderKeyHelp formats key bindings in a friendly way. Disabled bindings
// are skipped.
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		var keys []string
		for _, k := range sec.Keys {
			if !k.Enabled() {
				continue
			}
			h := k.Help()
			keys = append(keys, fmt.Sprintf("  %-12s %s", h.Key, h.Desc))
		}
		if len(keys) == 0 {
			continue
		}
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		lines = append(lines, keys...)
	}
	return strings.Join(lines, "\n")
}

// RenderPitchLabel draws the gutter label for a row: the pitch name padded
// to width, shaded like a piano key.
func RenderPitchLabel(p note.Pitch, width int, white, black lipgloss.Color) string {
	style := lipgloss.NewStyle().Width(width)
	if p.IsBlack() {
		style = style.Foreground(white).Background(black)
	} else {
		style = style.Foreground(black).Background(white)
	}
	return style.Render(p.String())
}
