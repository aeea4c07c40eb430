package tablematch

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stepcheck/retry"
	"github.com/cucumber/godog"
)

// Len is the number of data rows in t. Headers are not counted.
func (t Table) Len() int {
	return len(t.Rows)
}

// CheckRowCount fails with an assertion error unless t has exactly n rows.
func CheckRowCount(t Table, n int) error {
	if t.Len() != n {
		return retry.Assertf("%s has %d rows, expected %d", t.Name, t.Len(), n)
	}
	return nil
}

// CheckHeaders fails with an assertion error unless the first record equals
// expected, column for column and in order.
func CheckHeaders(records [][]string, expected []string) error {
	if len(records) == 0 {
		return retry.Assertf("no data found, expected headers %q", expected)
	}
	actual := records[0]
	if len(actual) != len(expected) {
		return retry.Assertf("found headers %q, expected %q", actual, expected)
	}
	for i := range actual {
		if actual[i] != expected[i] {
			return retry.Assertf("found headers %q, expected %q", actual, expected)
		}
	}
	return nil
}

// HeadersFromDataTable reads a single column data table, one header per
// row.
func HeadersFromDataTable(dt *godog.Table) ([]string, error) {
	if dt == nil || len(dt.Rows) == 0 {
		return nil, errors.Mark(errors.New("table content not specified"), ErrInvalidLookup)
	}
	headers := make([]string, 0, len(dt.Rows))
	for i, r := range dt.Rows {
		if len(r.Cells) != 1 {
			return nil, errors.Mark(
				errors.Newf("row %d has %d cells, expected 1", i, len(r.Cells)),
				ErrInvalidLookup,
			)
		}
		headers = append(headers, r.Cells[0].Value)
	}
	return headers, nil
}
