package tui

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a Renderer using glamour.
// Styled output adapts to a light or dark background; otherwise the "notty"
// style keeps the output free of escape codes.
func NewRenderer(styled bool) (Renderer, error) {
	style := glamour.WithStandardStyle("notty")
	if styled {
		style = glamour.WithAutoStyle() // Automatically detect light/dark background
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(120))
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
