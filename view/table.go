package view

import (
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/match"
)

type Column struct {
	Title string
	Right bool
}

// Cell is plain text, optionally drawn as a chip or next to an image.
type Cell struct {
	Text  string
	Chip  Color
	Image string
}

type Row struct {
	ID       string
	Selected bool
	Cells    []Cell
}

// Table is what every page hands to a renderer.
type Table struct {
	Caption string
	Columns []Column
	Rows    []Row
	// Selectable tables get a checkbox column; AllSelected drives its header.
	Selectable  bool
	AllSelected bool
	Loading     bool
}

// Filter keeps the rows with at least one cell matching pattern. Matching is
// case-insensitive and understands '*' and '?'; text without wildcards
// matches anywhere in a cell.
func Filter(t Table, pattern string) Table {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return t
	}
	if !strings.ContainsAny(pattern, "*?") {
		pattern = "*" + pattern + "*"
	}
	t.Rows = lo.Filter(t.Rows, func(r Row, _ int) bool {
		return lo.ContainsBy(r.Cells, func(c Cell) bool {
			return match.Match(strings.ToLower(c.Text), pattern)
		})
	})
	return t
}
