package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tremaux banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _                                    ", "#34d399"},
		{" | |_ _ __ ___ _ __ ___   __ _ _   ___  __", "#2dd4bf"},
		{" | __| '__/ _ \\ '_ ` _ \\ / _` | | | \\ \\/ /", "#22d3ee"},
		{" | |_| | |  __/ | | | | | (_| | |_| |>  < ", "#38bdf8"},
		{"  \\__|_|  \\___|_| |_| |_|\\__,_|\\__,_/_/\\_\\", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
