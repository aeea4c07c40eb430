package tablematch

import (
	"github.com/cockroachdb/errors"
	"github.com/cucumber/godog"
)

// RowsFromDataTable converts a step data table into expected rows. The first
// table row holds the column headers.
//
// Cell types are guessed with GuessValue. When the column's comparator does
// not accept the guessed type but accepts strings, the cell text is kept as
// a string, so "Age__equals" with "50" compares against the string "50".
func RowsFromDataTable(dt *godog.Table, r *Registry) ([]Row, error) {
	if dt == nil || len(dt.Rows) == 0 {
		return nil, errors.Mark(errors.New("table content not specified"), ErrInvalidLookup)
	}
	if r == nil {
		r = DefaultRegistry()
	}
	headerCells := dt.Rows[0].Cells
	headers := make([]string, len(headerCells))
	comparators := make([]Comparator, len(headerCells))
	for i, c := range headerCells {
		cmp, _, err := r.Lookup(c.Value)
		if err != nil {
			return nil, err
		}
		headers[i] = c.Value
		comparators[i] = cmp
	}

	rows := make([]Row, 0, len(dt.Rows)-1)
	for ri, tr := range dt.Rows[1:] {
		if len(tr.Cells) != len(headers) {
			return nil, errors.Mark(
				errors.Newf("row %d has %d cells, expected %d", ri+1, len(tr.Cells), len(headers)),
				ErrInvalidLookup,
			)
		}
		row := make(Row, len(headers))
		for i, c := range tr.Cells {
			v := GuessValue(c.Value)
			if !comparators[i].Accepts(v.Kind()) && comparators[i].Accepts(KindString) {
				v = StringValue(c.Value)
			}
			row[i] = Cell{Column: headers[i], Value: v}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
