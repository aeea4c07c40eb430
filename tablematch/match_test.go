package tablematch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stepcheck/retry"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// mkRow builds a row out of alternating column names and Go scalars.
func mkRow(t *testing.T, kvs ...interface{}) Row {
	require.Zero(t, len(kvs)%2)
	row := make(Row, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		v, err := ValueOf(kvs[i+1])
		require.NoError(t, err)
		row = append(row, Cell{Column: kvs[i].(string), Value: v})
	}
	return row
}

func TestIsRowInTable(t *testing.T) {
	table := Table{Rows: []Row{
		mkRow(t, "name", "X", "id", 1),
		mkRow(t, "name", "X", "id", 2),
		mkRow(t, "name", "Y", "id", 3, "note", nil),
	}}
	m := NewMatcher(nil)

	for _, tc := range []struct {
		desc     string
		expected Row
		idx      int
		found    bool
	}{
		{desc: "first fit", expected: mkRow(t, "name", "X"), idx: 0, found: true},
		{desc: "second row", expected: mkRow(t, "id", 2), idx: 1, found: true},
		{desc: "numeric equality", expected: mkRow(t, "id", 2.0), idx: 1, found: true},
		{desc: "null", expected: mkRow(t, "note", nil), idx: 2, found: true},
		{desc: "missing column", expected: mkRow(t, "other", "X"), found: false},
		{desc: "type mismatch", expected: mkRow(t, "id", "1"), found: false},
		{desc: "no row satisfies all columns", expected: mkRow(t, "name", "Y", "id", 1), found: false},
		{desc: "empty row matches first row", expected: Row{}, idx: 0, found: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			idx, found, err := m.IsRowInTable(table, tc.expected)
			require.NoError(t, err)
			require.Equal(t, tc.found, found)
			if tc.found {
				require.Equal(t, tc.idx, idx)
			}
		})
	}
}

func TestFindTableContainingRows(t *testing.T) {
	people := Table{Name: "people", Rows: []Row{
		mkRow(t, "name", "Jill Jones", "age", 55, "address", "Melbourne, Victoria"),
		mkRow(t, "name", "Markel Smith", "age", 50, "address", "CBD, Sydney", "extra", true),
	}}
	foods := Table{Name: "foods", Rows: []Row{
		mkRow(t, "person", "bob", "food", "fried rice", "is_ok", true),
		mkRow(t, "person", "lisa", "food", "steamed rice", "is_ok", true),
		mkRow(t, "person", "dan", "food", "", "is_ok", false),
	}}

	t.Run("subset of rows and columns", func(t *testing.T) {
		res, err := MatchTable([]Table{people, foods}, []Row{
			mkRow(t, "name__contains", "Markel", "address", "CBD, Sydney"),
		})
		require.NoError(t, err)
		require.Equal(t, 0, res.TableIndex)
		require.Equal(t, "people", res.Table.Name)
		require.Equal(t, []int{1}, res.RowIndexes)
	})

	t.Run("second table", func(t *testing.T) {
		res, err := MatchTable([]Table{people, foods}, []Row{
			mkRow(t, "person", "dan", "is_ok", false),
			mkRow(t, "person", "bob", "food__contains", "rice"),
		})
		require.NoError(t, err)
		require.Equal(t, 1, res.TableIndex)
		require.Equal(t, []int{2, 0}, res.RowIndexes)
	})

	t.Run("contains", func(t *testing.T) {
		_, err := MatchTable([]Table{foods}, []Row{mkRow(t, "food__contains", "rice")})
		require.NoError(t, err)
		_, err = MatchTable([]Table{foods}, []Row{mkRow(t, "food__contains", "noodles")})
		require.Error(t, err)
	})

	t.Run("empty contains matches empty cell", func(t *testing.T) {
		res, err := MatchTable([]Table{foods}, []Row{
			mkRow(t, "person", "dan", "food__contains", ""),
		})
		require.NoError(t, err)
		require.Equal(t, []int{2}, res.RowIndexes)
	})

	t.Run("no cross table matching", func(t *testing.T) {
		a := mkRow(t, "k", "A")
		b := mkRow(t, "k", "B")
		t1 := Table{Rows: []Row{a}}
		t2 := Table{Rows: []Row{b}}
		_, err := MatchTable([]Table{t1, t2}, []Row{a, b})
		require.Error(t, err)

		var noMatch *NoMatchError
		require.True(t, errors.As(err, &noMatch))
		require.Equal(t, map[int][]Row{0: {b}, 1: {a}}, noMatch.Missing)
		require.True(t, retry.IsTransient(err))
	})

	t.Run("no tables", func(t *testing.T) {
		_, err := MatchTable(nil, []Row{mkRow(t, "k", "A")})
		require.EqualError(t, err, "no table found to match the expected rows")
	})

	t.Run("no expected rows", func(t *testing.T) {
		res, err := MatchTable([]Table{people}, nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.TableIndex)
		require.Empty(t, res.RowIndexes)
	})
}

func TestFindTableContainingRowsInOrder(t *testing.T) {
	table := Table{Rows: []Row{
		mkRow(t, "k", "A"),
		mkRow(t, "k", "B"),
		mkRow(t, "k", "C"),
		mkRow(t, "k", "D"),
	}}

	res, err := MatchTableInOrder([]Table{table}, []Row{mkRow(t, "k", "B"), mkRow(t, "k", "D")})
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, res.RowIndexes)

	_, err = MatchTableInOrder([]Table{table}, []Row{mkRow(t, "k", "D"), mkRow(t, "k", "B")})
	require.EqualError(t, err, "rows found in table but not in the order specified: [3 1]")
	var order *OrderError
	require.True(t, errors.As(err, &order))
	require.True(t, retry.IsTransient(err))
}

func TestCheckOrder(t *testing.T) {
	for _, tc := range []struct {
		indexes  []int
		expected bool
	}{
		{indexes: []int{3, 1}, expected: false},
		{indexes: []int{1, 3}, expected: true},
		{indexes: []int{1, 1}, expected: true},
		{indexes: nil, expected: true},
		{indexes: []int{0, 2, 1}, expected: false},
	} {
		t.Run(fmt.Sprintf("%v", tc.indexes), func(t *testing.T) {
			require.Equal(t, tc.expected, CheckOrder(tc.indexes))
		})
	}
}

func TestStringComparatorsOnOtherKinds(t *testing.T) {
	numeric := Table{Rows: []Row{mkRow(t, "age", 50)}}
	stringified := Table{Rows: []Row{mkRow(t, "age", "50")}}

	// The actual value is a number, so equals never matches it.
	_, err := MatchTable([]Table{numeric}, []Row{mkRow(t, "age__equals", "50")})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidLookup))
	require.True(t, retry.IsTransient(err))
	var noMatch *NoMatchError
	require.True(t, errors.As(err, &noMatch))
	require.Equal(t, map[int][]Row{0: {mkRow(t, "age__equals", "50")}}, noMatch.Missing)

	res, err := MatchTable([]Table{stringified}, []Row{mkRow(t, "age__equals", "50")})
	require.NoError(t, err)
	require.Equal(t, []int{0}, res.RowIndexes)

	// A numeric expected value is rejected before any table is scanned.
	_, err = MatchTable(nil, []Row{mkRow(t, "age__contains", 5)})
	require.True(t, errors.Is(err, ErrInvalidLookup))
}

func TestCellKindMismatchSkipsRow(t *testing.T) {
	codes := Table{Name: "codes", Rows: []Row{mkRow(t, "code", 123)}}
	other := Table{Name: "other", Rows: []Row{mkRow(t, "code", "A12")}}
	res, err := MatchTable([]Table{codes, other}, []Row{mkRow(t, "code__equals", "A12")})
	require.NoError(t, err)
	require.Equal(t, 1, res.TableIndex)
	require.Equal(t, []int{0}, res.RowIndexes)

	food := Table{Rows: []Row{mkRow(t, "food", nil), mkRow(t, "food", "fried rice")}}
	idx, found, err := NewMatcher(nil).IsRowInTable(food, mkRow(t, "food__contains", "rice"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, idx)
}

func TestUnknownComparator(t *testing.T) {
	table := Table{Rows: []Row{mkRow(t, "name", "X")}}
	for _, tables := range [][]Table{nil, {table}} {
		_, err := MatchTable(tables, []Row{mkRow(t, "name__startswith", "X")})
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidLookup))
		require.False(t, retry.IsTransient(err))
		require.Contains(t, err.Error(), `unknown comparator "startswith"`)
	}
}

type prefixComparator struct{}

func (prefixComparator) Name() string { return "startswith" }

func (prefixComparator) Accepts(k Kind) bool { return k == KindString }

func (prefixComparator) Match(e, a Value) bool {
	es, _ := e.Str()
	as, _ := a.Str()
	return len(as) >= len(es) && as[:len(es)] == es
}

func TestCustomComparator(t *testing.T) {
	r := DefaultRegistry()
	require.NoError(t, r.Register(prefixComparator{}))
	m := NewMatcher(r)

	table := Table{Rows: []Row{mkRow(t, "name", "Markel Smith"), mkRow(t, "name", "Jill Jones")}}
	res, err := m.FindTableContainingRows([]Table{table}, []Row{mkRow(t, "name__startswith", "Jill")})
	require.NoError(t, err)
	require.Equal(t, []int{1}, res.RowIndexes)
}

func TestConcurrentMatches(t *testing.T) {
	m := NewMatcher(nil)
	table := Table{Rows: []Row{mkRow(t, "k", "A"), mkRow(t, "k", "B")}}
	expected := []Row{mkRow(t, "k", "B")}

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			res, err := m.FindTableContainingRows([]Table{table}, expected)
			if err != nil {
				return err
			}
			if res.RowIndexes[0] != 1 {
				return errors.Newf("unexpected match %v", res.RowIndexes)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestMatchWithRetry(t *testing.T) {
	calls := 0
	pages := [][]Table{
		{{Rows: []Row{mkRow(t, "status", "loading")}}},
		{{Rows: []Row{mkRow(t, "status", "loading")}}},
		{{Rows: []Row{mkRow(t, "status", "done")}}},
	}
	res, err := retry.DoValue(context.Background(), retry.Settings{Timeout: time.Minute, Interval: time.Millisecond}, func() (Result, error) {
		page := pages[calls]
		calls++
		return MatchTable(page, []Row{mkRow(t, "status", "done")})
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []int{0}, res.RowIndexes)
}

func TestMatchWithRetryPlaceholderCell(t *testing.T) {
	calls := 0
	pages := [][]Table{
		{{Rows: []Row{mkRow(t, "status", nil)}}},
		{{Rows: []Row{mkRow(t, "status", "done loading")}}},
	}
	res, err := retry.DoValue(context.Background(), retry.Settings{Timeout: time.Minute, Interval: time.Millisecond}, func() (Result, error) {
		page := pages[calls]
		calls++
		return MatchTable(page, []Row{mkRow(t, "status__contains", "done")})
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, []int{0}, res.RowIndexes)
}
