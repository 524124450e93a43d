package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// WriteCSV writes the headers and displayed cell text of v.
func WriteCSV(w io.Writer, v View) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		header[i] = h.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range v.Rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = cell.Text
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

const (
	minColumnWidth = 4
	maxColumnWidth = 40
)

// WriteText writes v as a fixed-width table followed by a pager line.
// Column widths account for wide runes.
func WriteText(w io.Writer, v View) error {
	headers := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		headers[i] = h.Label
	}
	cells := make([][]string, len(v.Rows))
	for r, row := range v.Rows {
		cells[r] = make([]string, len(row))
		for i, cell := range row {
			cells[r][i] = sanitizeCell(cell.Text)
		}
	}
	widths := ColumnWidths(headers, cells)

	var b strings.Builder
	writeTextRow(&b, headers, widths)
	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	writeTextRow(&b, rule, widths)
	for _, row := range cells {
		writeTextRow(&b, row, widths)
	}
	b.WriteString(PagerSummary(v.Pager))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// ColumnWidths returns per-column display widths clamped to a readable range.
func ColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		width := runewidth.StringWidth(h)
		for _, row := range rows {
			if i < len(row) {
				width = max(width, runewidth.StringWidth(row[i]))
			}
		}
		widths[i] = min(max(width, minColumnWidth), maxColumnWidth)
	}
	return widths
}

// PagerSummary is the one-line pager footer, e.g. "rows 21-30 of 45, page 3/5".
func PagerSummary(p Pager) string {
	if p.TotalCount == 0 && p.End == 0 {
		return "no rows"
	}
	return fmt.Sprintf("rows %d-%d of %d, page %d/%d", p.Start, p.End, p.TotalCount, p.Page, max(p.TotalPages, 1))
}

func writeTextRow(b *strings.Builder, row []string, widths []int) {
	for i, width := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		cell := ""
		if i < len(row) {
			cell = runewidth.Truncate(row[i], width, "…")
		}
		if i == len(widths)-1 {
			b.WriteString(cell)
		} else {
			b.WriteString(runewidth.FillRight(cell, width))
		}
	}
	b.WriteByte('\n')
}

func sanitizeCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
