package health

import (
	"regexp"
	"sort"

	"github.com/secondkeith/vitalog/internal/errors"
)

// datePattern matches ISO-8601 calendar dates. The fixed-width zero-padded
// form is what makes lexicographic ordering equal to chronological ordering.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s is a YYYY-MM-DD date string.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// Series is the validated, ascending-by-date day series. It is the sole
// shared input to every derived computation and is treated as immutable
// once constructed.
type Series struct {
	days []DayRecord
}

// NewSeries builds a Series from an ordered or unordered collection of
// day records. The input slice is copied and sorted lexicographically by
// date. Returns EMPTY_SERIES for a zero-length input and DUPLICATE_DATE
// when two records share a date.
func NewSeries(days []DayRecord) (*Series, error) {
	if len(days) == 0 {
		return nil, errors.NewEmptySeries()
	}

	sorted := make([]DayRecord, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date == sorted[i-1].Date {
			return nil, errors.NewDuplicateDate(sorted[i].Date)
		}
	}

	return &Series{days: sorted}, nil
}

// Days returns the records in ascending date order. Callers must not
// mutate the returned slice.
func (s *Series) Days() []DayRecord {
	return s.days
}

// Len returns the number of days in the series.
func (s *Series) Len() int {
	return len(s.days)
}

// First returns the earliest day record.
func (s *Series) First() DayRecord {
	return s.days[0]
}

// Last returns the most recent day record.
func (s *Series) Last() DayRecord {
	return s.days[len(s.days)-1]
}
