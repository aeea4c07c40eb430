package tablematch

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

type Reporter interface {
	Report(err error)
}

// LogReporter reports match failures to `zerolog`.
type LogReporter struct {
	zerolog.Logger
}

func (l LogReporter) Report(err error) {
	var noMatch *NoMatchError
	var order *OrderError
	switch {
	case err == nil:
		return
	case errors.As(err, &noMatch):
		if len(noMatch.Tables) == 0 {
			l.Warn().Msgf("no tables to search")
			return
		}
		for i, t := range noMatch.Tables {
			tableRows := make([]string, len(t.Rows))
			for j, row := range t.Rows {
				tableRows[j] = row.String()
			}
			missing := make([]string, len(noMatch.Missing[i]))
			for j, row := range noMatch.Missing[i] {
				missing[j] = row.String()
			}
			l.Warn().
				Str("table", tableLabel(i, t)).
				Strs("rows", tableRows).
				Strs("missing_rows", missing).
				Msgf("table does not contain expected rows")
		}
	case errors.As(err, &order):
		l.Warn().
			Int("table_index", order.TableIndex).
			Ints("row_indexes", order.RowIndexes).
			Msgf("rows found in table but not in the order specified")
	case errors.Is(err, ErrInvalidLookup):
		l.Error().Err(err).Msgf("invalid expected rows")
	default:
		l.Error().
			Str("type", fmt.Sprintf("%T", err)).
			Err(err).
			Msgf("unknown match failure")
	}
}
