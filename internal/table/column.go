// Package table renders rows of any type through a column set into a
// presentation-neutral View shared by the HTML, CSV, text and terminal front ends.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// Display is the rendered form of one cell.
type Display struct {
	Text string
	// Href turns the cell into a link.
	Href string
	// Badge is a status style (e.g. "success", "warning") for badge cells.
	Badge string
}

// Text is a plain Display.
func Text(s string) Display { return Display{Text: s} }

// Link is a Display that links to href.
func Link(text, href string) Display { return Display{Text: text, Href: href} }

// Cell is what a column renderer receives.
type Cell[T any] struct {
	// Value is the raw value at the column's field.
	Value any
	Row   T
	Index int
	Extra any
}

// Column describes one table column. Field is a JSON field name of the row
// (or a map key), or a JMESPath expression such as "location.latitude".
type Column[T any] struct {
	Field    string
	Label    string
	Sortable bool
	Render   func(Cell[T]) Display
	Extra    any
}

// ColumnSet is a validated, immutable list of columns.
type ColumnSet[T any] struct {
	cols      []Column[T]
	accessors []accessor
}

// NewColumnSet validates cols: fields must be non-empty, unique and valid paths.
func NewColumnSet[T any](cols ...Column[T]) (ColumnSet[T], error) {
	if len(cols) == 0 {
		return ColumnSet[T]{}, errors.New("column set needs at least one column")
	}

	seen := make(map[string]struct{}, len(cols))
	set := ColumnSet[T]{
		cols:      make([]Column[T], len(cols)),
		accessors: make([]accessor, len(cols)),
	}
	for i, c := range cols {
		field := strings.TrimSpace(c.Field)
		if field == "" {
			return ColumnSet[T]{}, fmt.Errorf("column %d: field is required", i)
		}
		if _, dup := seen[field]; dup {
			return ColumnSet[T]{}, fmt.Errorf("column %q: duplicate field", field)
		}
		seen[field] = struct{}{}

		acc, err := newAccessor(field)
		if err != nil {
			return ColumnSet[T]{}, fmt.Errorf("column %q: %w", field, err)
		}
		c.Field = field
		if c.Label == "" {
			c.Label = field
		}
		set.cols[i] = c
		set.accessors[i] = acc
	}
	return set, nil
}

// MustColumnSet is NewColumnSet for package-level column definitions.
func MustColumnSet[T any](cols ...Column[T]) ColumnSet[T] {
	set, err := NewColumnSet(cols...)
	if err != nil {
		panic(err)
	}
	return set
}

// Len returns the number of columns.
func (s ColumnSet[T]) Len() int { return len(s.cols) }

// Columns returns a copy of the columns.
func (s ColumnSet[T]) Columns() []Column[T] {
	out := make([]Column[T], len(s.cols))
	copy(out, s.cols)
	return out
}
