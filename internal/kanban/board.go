// Package kanban groups project modules into status columns and moves them
// between columns.
package kanban

import (
	"strings"

	"planboard-cli/internal/model"
)

type Column struct {
	Status model.Status
	Label  string
	Cards  []model.Module
}

// Board holds one column per known status, in model.KnownStatuses order.
type Board struct {
	Columns []Column
}

// NewBoard places each module in the column matching its status exactly.
// Modules with any other status are left off the board.
func NewBoard(modules []model.Module) Board {
	b := Board{Columns: make([]Column, 0, len(model.KnownStatuses))}
	for _, st := range model.KnownStatuses {
		b.Columns = append(b.Columns, Column{Status: st, Label: st.Label()})
	}
	for _, m := range modules {
		if i := b.ColumnIndex(m.Status); i >= 0 {
			b.Columns[i].Cards = append(b.Columns[i].Cards, m)
		}
	}
	return b
}

// ColumnIndex returns the column for status, or -1.
func (b Board) ColumnIndex(status model.Status) int {
	for i, c := range b.Columns {
		if c.Status == status {
			return i
		}
	}
	return -1
}

// Find locates a card by id.
func (b Board) Find(id model.ID) (col, row int, ok bool) {
	id = model.ID(strings.TrimSpace(string(id)))
	for ci, c := range b.Columns {
		for ri, m := range c.Cards {
			if m.ID == id {
				return ci, ri, true
			}
		}
	}
	return 0, 0, false
}

// Len counts the cards on the board.
func (b Board) Len() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Cards)
	}
	return n
}

// ValidStatus reports whether status names a board column.
func ValidStatus(status model.Status) bool {
	for _, st := range model.KnownStatuses {
		if st == status {
			return true
		}
	}
	return false
}
