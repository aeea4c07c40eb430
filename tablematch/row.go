package tablematch

import (
	"strings"
)

// Cell is one named value in a Row.
type Cell struct {
	Column string
	Value  Value
}

// Row is an ordered mapping of column names to values. Column names of
// expected rows may carry a "__<comparator>" suffix.
type Row []Cell

// Get returns the value of the first cell named col.
func (r Row) Get(col string) (Value, bool) {
	for _, c := range r {
		if c.Column == col {
			return c.Value, true
		}
	}
	return Value{}, false
}

func (r Row) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, c := range r {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Column)
		sb.WriteString(": ")
		sb.WriteString(c.Value.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// Table is an ordered sequence of rows, such as one on-page table or one
// downloaded file.
type Table struct {
	Name string
	Rows []Row
}

// Dump renders every row on its own line.
func (t Table) Dump() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		sb.WriteString(row.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// TableFromRecords builds a table out of a header record followed by data
// records, guessing the type of every cell. Records shorter than the header
// produce rows with fewer cells; cells beyond the header are dropped. A
// missing cell is absent rather than null, so it never matches, not even an
// expected null.
func TableFromRecords(name string, records [][]string) Table {
	t := Table{Name: name}
	if len(records) == 0 {
		return t
	}
	header := records[0]
	for _, rec := range records[1:] {
		n := len(rec)
		if n > len(header) {
			n = len(header)
		}
		row := make(Row, n)
		for i := 0; i < n; i++ {
			row[i] = Cell{Column: header[i], Value: GuessValue(rec[i])}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
