package tui

import (
	"strings"

	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/maze"
	"github.com/muesli/termenv"
)

// Trail marks.
const (
	ExploreMark = 'o'
	ReplayMark  = '*'
)

// RenderMaze draws g with the exploring trail and the replay trail on top of it.
// Replay marks win where both trails pass. With colour set the marks and walls
// are styled for the terminal.
func RenderMaze(g *maze.Grid, explore, replay []domain.Cell, colour bool) string {
	marks := make(map[domain.Cell]rune, len(explore)+len(replay))
	for _, c := range explore {
		marks[c] = ExploreMark
	}
	for _, c := range replay {
		marks[c] = ReplayMark
	}
	plain := g.Render(marks)
	if !colour {
		return plain
	}

	p := termenv.EnvColorProfile()
	var b strings.Builder
	for _, r := range plain {
		s := string(r)
		switch r {
		case '#':
			b.WriteString(termenv.String(s).Foreground(p.Color("#64748b")).String())
		case ExploreMark:
			b.WriteString(termenv.String(s).Foreground(p.Color("#fbbf24")).String())
		case ReplayMark:
			b.WriteString(termenv.String(s).Foreground(p.Color("#34d399")).Bold().String())
		case 'S', 'G':
			b.WriteString(termenv.String(s).Foreground(p.Color("#f472b6")).Bold().String())
		default:
			b.WriteString(s)
		}
	}
	return b.String()
}
