// Package content samples an access-log file and summarizes where its
// requests came from and when they happened.
package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// HourKey identifies one hour of one calendar day.
type HourKey struct {
	Year  int
	Month time.Month
	Day   int
	Hour  int
}

// String formats the key as YYYY-MM-DDTHH.
func (k HourKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d", k.Year, int(k.Month), k.Day, k.Hour)
}

// DayKey identifies a calendar day.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats the key as YYYY-MM-DD.
func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// Time returns the key as midnight UTC.
func (k DayKey) Time() time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
}

// Less orders day keys chronologically.
func (k DayKey) Less(o DayKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Day < o.Day
}

// IPCounts counts sampled lines by client address origin.
type IPCounts struct {
	Local  int `json:"local"`
	Remote int `json:"remote"`
}

// Summary is the result of sampling one file. It is built by the Sampler and
// read-only afterwards.
type Summary struct {
	IPs          IPCounts
	Hours        map[HourKey]int
	InvalidLines int
	TotalLines   int
	SampledLines int
}

// MarshalJSON renders Hours as a list of {hour, count} sorted by hour.
func (s Summary) MarshalJSON() ([]byte, error) {
	type hour struct {
		Hour  string `json:"hour"`
		Count int    `json:"count"`
	}

	keys := make([]HourKey, 0, len(s.Hours))
	for k := range s.Hours {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	hours := make([]hour, 0, len(keys))
	for _, k := range keys {
		hours = append(hours, hour{Hour: k.String(), Count: s.Hours[k]})
	}

	return json.Marshal(struct {
		IPs          IPCounts `json:"ips"`
		Hours        []hour   `json:"datetimes"`
		InvalidLines int      `json:"invalid_lines"`
		TotalLines   int      `json:"total_lines"`
		SampledLines int      `json:"sampled_lines"`
	}{s.IPs, hours, s.InvalidLines, s.TotalLines, s.SampledLines})
}
