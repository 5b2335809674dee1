package content

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDayFrequencies(t *testing.T) {
	hours := map[HourKey]int{
		{2024, time.February, 20, 23}: 4,
		{2024, time.February, 21, 0}:  7,
		{2024, time.February, 21, 13}: 5,
		{2024, time.March, 21, 13}:    1,
	}

	days := DayFrequencies(hours)

	if days[DayKey{2024, time.February, 21}] != 12 {
		t.Errorf("expected 12 on 2024-02-21, got %d", days[DayKey{2024, time.February, 21}])
	}
	if len(days) != 3 {
		t.Errorf("expected 3 days, got %d", len(days))
	}

	var hourTotal, dayTotal int
	for _, n := range hours {
		hourTotal += n
	}
	for _, n := range days {
		dayTotal += n
	}
	if hourTotal != dayTotal {
		t.Errorf("day reduction changed the total: %d != %d", dayTotal, hourTotal)
	}
}

func TestInferDate(t *testing.T) {
	tests := []struct {
		name  string
		hours map[HourKey]int
		want  string
	}{
		{
			name:  "single hour",
			hours: map[HourKey]int{{2023, time.January, 1, 0}: 1},
			want:  "2023-01-01",
		},
		{
			name: "most frequent day",
			hours: map[HourKey]int{
				{2024, time.February, 20, 23}: 3,
				{2024, time.February, 21, 1}:  2,
				{2024, time.February, 21, 2}:  2,
				{2024, time.February, 22, 0}:  1,
			},
			want: "2024-02-21",
		},
		{
			name: "tie goes to latest day",
			hours: map[HourKey]int{
				{2024, time.February, 22, 0}: 2,
				{2023, time.December, 31, 5}: 2,
				{2024, time.February, 21, 9}: 2,
			},
			want: "2024-02-22",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferDate(tt.hours)
			if !got.Known() {
				t.Fatalf("InferDate() error = %v", got.Err)
			}
			if got.String() != tt.want {
				t.Errorf("InferDate() = %s, want %s", got, tt.want)
			}
			if got.Date.Location() != time.UTC || got.Date.Hour() != 0 {
				t.Errorf("expected midnight UTC, got %v", got.Date)
			}
		})
	}
}

func TestInferDate_Empty(t *testing.T) {
	for _, hours := range []map[HourKey]int{nil, {}} {
		got := InferDate(hours)
		if !errors.Is(got.Err, ErrEmptyDateSet) {
			t.Errorf("InferDate() error = %v, want ErrEmptyDateSet", got.Err)
		}
		if got.String() != "date dictionary is empty" {
			t.Errorf("String() = %q", got.String())
		}
	}
}

func TestSummaryMarshalJSON(t *testing.T) {
	s := Summary{
		IPs: IPCounts{Local: 2, Remote: 1},
		Hours: map[HourKey]int{
			{2024, time.February, 21, 10}: 1,
			{2024, time.February, 20, 9}:  2,
		},
		TotalLines:   30,
		SampledLines: 3,
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `"ips":{"local":2,"remote":1}`) {
		t.Errorf("missing ips in %s", out)
	}
	first := strings.Index(out, "2024-02-20T09")
	second := strings.Index(out, "2024-02-21T10")
	if first < 0 || second < 0 || first > second {
		t.Errorf("hours not sorted in %s", out)
	}
}
