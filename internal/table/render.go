package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

// Header is one rendered column header.
type Header struct {
	Field    string
	Label    string
	Sortable bool
}

// RenderedCell is a cell after rendering; Raw keeps the unrendered value.
type RenderedCell struct {
	Display
	Raw any
}

// View is a fully rendered table page.
type View struct {
	Headers []Header
	Rows    [][]RenderedCell
	Pager   Pager
}

// Empty reports whether the view has no body rows.
func (v View) Empty() bool { return len(v.Rows) == 0 }

// Render renders rows through cols. It never mutates rows or cols and always
// yields exactly len(rows) body rows; the pager trusts total.
func Render[T any](rows []T, cols ColumnSet[T], paging model.PagingState, total int) View {
	headers := make([]Header, len(cols.cols))
	for i, c := range cols.cols {
		headers[i] = Header{Field: c.Field, Label: c.Label, Sortable: c.Sortable}
	}

	body := make([][]RenderedCell, len(rows))
	for r, row := range rows {
		cells := make([]RenderedCell, len(cols.cols))
		for i, c := range cols.cols {
			raw := cols.accessors[i].value(row)
			cell := RenderedCell{Raw: raw}
			if c.Render != nil {
				cell.Display = c.Render(Cell[T]{Value: raw, Row: row, Index: r, Extra: c.Extra})
			} else {
				cell.Display = Display{Text: FormatValue(raw)}
			}
			cells[i] = cell
		}
		body[r] = cells
	}

	return View{
		Headers: headers,
		Rows:    body,
		Pager:   NewPager(paging, total, len(rows)),
	}
}

// FormatValue is the default textual form of a raw cell value.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}
