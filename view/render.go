package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
)

// Render writes t as an aligned text table.
func Render(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := lo.Map(t.Columns, func(c Column, _ int) string {
		return strings.ToUpper(c.Title)
	})
	if t.Selectable {
		header = append([]string{checkbox(t.AllSelected)}, header...)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range t.Rows {
		cells := lo.Map(row.Cells, func(c Cell, _ int) string {
			return c.Chip.Sprint(c.Text)
		})
		if t.Selectable {
			cells = append([]string{checkbox(row.Selected)}, cells...)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if t.Caption != "" {
		_, err := fmt.Fprintf(w, "\n%s (%d)\n", t.Caption, len(t.Rows))
		return err
	}
	return nil
}

func checkbox(checked bool) string {
	return lo.Ternary(checked, "[x]", "[ ]")
}
