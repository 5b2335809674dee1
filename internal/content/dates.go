package content

import (
	"errors"
	"sort"
	"time"
)

// ErrEmptyDateSet is reported when there are no dated records to infer from.
var ErrEmptyDateSet = errors.New("date dictionary is empty")

// ProbableDate is the day most records fall on, or the reason it could not
// be determined.
type ProbableDate struct {
	Date time.Time
	Err  error
}

// Known reports whether a date was determined.
func (p ProbableDate) Known() bool {
	return p.Err == nil
}

// String returns the date as YYYY-MM-DD or the error message.
func (p ProbableDate) String() string {
	if p.Err != nil {
		return p.Err.Error()
	}
	return p.Date.Format(time.DateOnly)
}

// DayFrequencies folds an hourly histogram into a daily one.
// The total count is preserved.
func DayFrequencies(hours map[HourKey]int) map[DayKey]int {
	days := make(map[DayKey]int, len(hours))
	for k, n := range hours {
		days[DayKey{Year: k.Year, Month: k.Month, Day: k.Day}] += n
	}
	return days
}

// InferDate returns the day with the most records. Ties go to the latest day.
func InferDate(hours map[HourKey]int) ProbableDate {
	days := DayFrequencies(hours)
	if len(days) == 0 {
		return ProbableDate{Err: ErrEmptyDateSet}
	}

	keys := make([]DayKey, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if days[keys[i]] != days[keys[j]] {
			return days[keys[i]] < days[keys[j]]
		}
		return keys[i].Less(keys[j])
	})

	return ProbableDate{Date: keys[len(keys)-1].Time()}
}
