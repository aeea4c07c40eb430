package tablematch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stepcheck/retry"
)

// Result describes the table satisfying every expected row.
type Result struct {
	TableIndex int
	Table      Table
	// RowIndexes holds, for each expected row in order, the index of the
	// first row of Table it matched.
	RowIndexes []int
}

// NoMatchError is returned when no single table contains all expected rows.
type NoMatchError struct {
	Tables []Table
	// Missing holds the expected rows each table lacked, keyed by table index.
	Missing map[int][]Row
}

func (e *NoMatchError) Error() string {
	if len(e.Tables) == 0 {
		return "no table found to match the expected rows"
	}
	return fmt.Sprintf("no table matches the expected rows (%d tables searched)", len(e.Tables))
}

// Diagnostic dumps every candidate table along with its missing rows.
func (e *NoMatchError) Diagnostic() string {
	var sb strings.Builder
	sb.WriteString("Found tables:\n")
	for i, t := range e.Tables {
		sb.WriteString(tableLabel(i, t))
		sb.WriteString(":\n")
		sb.WriteString(t.Dump())
		sb.WriteString("Missing rows:\n")
		for _, row := range e.Missing[i] {
			sb.WriteString(row.String())
			sb.WriteString("\n")
		}
		sb.WriteString("--------\n")
	}
	return sb.String()
}

// OrderError is returned when the expected rows were all found in a table
// but not in the order given.
type OrderError struct {
	TableIndex int
	RowIndexes []int
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("rows found in table but not in the order specified: %v", e.RowIndexes)
}

func tableLabel(idx int, t Table) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("table %d", idx+1)
}

// Matcher finds expected rows in candidate tables. It holds no state other
// than its registry and is safe for concurrent use.
type Matcher struct {
	registry *Registry
}

// NewMatcher returns a matcher resolving comparators from r, or from the
// default registry if r is nil.
func NewMatcher(r *Registry) *Matcher {
	if r == nil {
		r = DefaultRegistry()
	}
	return &Matcher{registry: r}
}

type lookup struct {
	header   string
	column   string
	cmp      Comparator
	expected Value
}

type compiledRow struct {
	row     Row
	lookups []lookup
}

func (m *Matcher) compile(expected Row) (compiledRow, error) {
	cr := compiledRow{row: expected, lookups: make([]lookup, len(expected))}
	for i, c := range expected {
		cmp, column, err := m.registry.Lookup(c.Column)
		if err != nil {
			return compiledRow{}, err
		}
		if !cmp.Accepts(c.Value.Kind()) {
			return compiledRow{}, unsupportedValueError(cmp, c.Column, c.Value)
		}
		cr.lookups[i] = lookup{header: c.Column, column: column, cmp: cmp, expected: c.Value}
	}
	return cr, nil
}

func unsupportedValueError(cmp Comparator, header string, v Value) error {
	return errors.Mark(
		errors.Newf("comparator %q does not accept %s value %s in column %q", cmp.Name(), v.Kind(), v, header),
		ErrInvalidLookup,
	)
}

// matches reports whether every looked up column of actual satisfies its
// comparator. Columns of actual that are not looked up are ignored, and a
// cell of a kind the comparator does not accept never matches.
func (cr compiledRow) matches(actual Row) bool {
	for _, l := range cr.lookups {
		v, ok := actual.Get(l.column)
		if !ok || !l.cmp.Accepts(v.Kind()) {
			return false
		}
		if !l.cmp.Match(l.expected, v) {
			return false
		}
	}
	return true
}

// find returns the index of the first row of t that matches.
func (cr compiledRow) find(t Table) (int, bool) {
	for i, row := range t.Rows {
		if cr.matches(row) {
			return i, true
		}
	}
	return 0, false
}

// IsRowInTable returns the index of the first row of t matching expected.
func (m *Matcher) IsRowInTable(t Table, expected Row) (int, bool, error) {
	cr, err := m.compile(expected)
	if err != nil {
		return 0, false, err
	}
	idx, found := cr.find(t)
	return idx, found, nil
}

// FindTableContainingRows returns the first table in which every expected
// row matches some row. Rows matched in different tables do not count.
// A *NoMatchError, marked as a failed assertion, is returned when no table
// qualifies.
func (m *Matcher) FindTableContainingRows(tables []Table, expected []Row) (Result, error) {
	compiled := make([]compiledRow, len(expected))
	for i, row := range expected {
		cr, err := m.compile(row)
		if err != nil {
			return Result{}, errors.Wrapf(err, "expected row %d", i+1)
		}
		compiled[i] = cr
	}

	missing := make(map[int][]Row)
	for ti, t := range tables {
		rowIndexes := make([]int, 0, len(compiled))
		allFound := true
		for _, cr := range compiled {
			idx, found := cr.find(t)
			if !found {
				allFound = false
				missing[ti] = append(missing[ti], cr.row)
				continue
			}
			rowIndexes = append(rowIndexes, idx)
		}
		if allFound {
			return Result{TableIndex: ti, Table: t, RowIndexes: rowIndexes}, nil
		}
	}
	return Result{}, retry.MarkAssertion(&NoMatchError{Tables: tables, Missing: missing})
}

// FindTableContainingRowsInOrder is FindTableContainingRows additionally
// requiring the matched rows to appear in the order they were given. Rows
// need not be contiguous.
func (m *Matcher) FindTableContainingRowsInOrder(tables []Table, expected []Row) (Result, error) {
	res, err := m.FindTableContainingRows(tables, expected)
	if err != nil {
		return Result{}, err
	}
	if !CheckOrder(res.RowIndexes) {
		return res, retry.MarkAssertion(&OrderError{TableIndex: res.TableIndex, RowIndexes: res.RowIndexes})
	}
	return res, nil
}

// CheckOrder returns whether indexes are in ascending order.
func CheckOrder(indexes []int) bool {
	return sort.IntsAreSorted(indexes)
}

// MatchTable runs FindTableContainingRows with the default comparators.
func MatchTable(tables []Table, expected []Row) (Result, error) {
	return NewMatcher(nil).FindTableContainingRows(tables, expected)
}

// MatchTableInOrder runs FindTableContainingRowsInOrder with the default
// comparators.
func MatchTableInOrder(tables []Table, expected []Row) (Result, error) {
	return NewMatcher(nil).FindTableContainingRowsInOrder(tables, expected)
}
