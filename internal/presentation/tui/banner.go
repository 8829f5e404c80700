package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the drillsim ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Earth tones, topsoil to bedrock
	lines := []struct {
		text  string
		color string
	}{
		{"      _      _ _ _     _           ", "#d6b38a"},
		{"   __| |_ __(_) | |___(_)_ __ ___  ", "#c2956b"},
		{"  / _` | '__| | | / __| | '_ ` _ \\ ", "#a87850"},
		{" | (_| | |  | | | \\__ \\ | | | | | |", "#8c5e3c"},
		{"  \\__,_|_|  |_|_|_|___/_|_| |_| |_|", "#6b4630"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
