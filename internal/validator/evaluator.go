package validator

import (
	"time"

	"github.com/olegiv/scielo-log-validator-go/internal/content"
	"github.com/olegiv/scielo-log-validator-go/internal/pathinfo"
)

// Default thresholds.
const (
	DefaultMinRemotePercent = 10.0
	DefaultDaysDelta        = 2
)

// Thresholds are the tunable limits of the consistency checks.
type Thresholds struct {
	// MinRemotePercent is the share of remote addresses, relative to the
	// file's total line count, above which the IP criterion passes.
	MinRemotePercent float64
	// DaysDelta is how many days the probable date may differ from the
	// date in the file name.
	DaysDelta int
}

// DefaultThresholds returns the thresholds used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinRemotePercent: DefaultMinRemotePercent,
		DaysDelta:        DefaultDaysDelta,
	}
}

// Verdict is the outcome of both criteria and their conjunction.
type Verdict struct {
	IPs   Tristate `json:"ips"`
	Dates Tristate `json:"dates"`
	All   bool     `json:"all"`
}

// Evaluator decides whether a file's content is consistent with its name.
type Evaluator struct {
	thresholds Thresholds
}

// NewEvaluator creates an Evaluator with fixed thresholds.
func NewEvaluator(t Thresholds) *Evaluator {
	return &Evaluator{thresholds: t}
}

// EvaluateIPs checks that the sample is not dominated by local addresses.
// Percentages are computed against the total line count, not the sample.
func (e *Evaluator) EvaluateIPs(s *content.Summary) Tristate {
	if s == nil || (s.IPs.Local == 0 && s.IPs.Remote == 0) || s.TotalLines == 0 {
		return Undetermined
	}

	total := float64(s.TotalLines)
	pctRemote := float64(s.IPs.Remote) / total * 100
	pctLocal := float64(s.IPs.Local) / total * 100

	if pctRemote > pctLocal {
		return True
	}
	if pctRemote > e.thresholds.MinRemotePercent {
		return True
	}
	return False
}

// EvaluateDates checks that the probable date lies within DaysDelta days of
// the date in the file name.
func (e *Evaluator) EvaluateDates(pathDate *string, s *content.Summary, probable content.ProbableDate) Tristate {
	if pathDate == nil || *pathDate == "" || s == nil || len(s.Hours) == 0 {
		return Undetermined
	}

	cleaned, err := pathinfo.CleanDate(*pathDate)
	if err != nil {
		return False
	}
	fileDate, err := time.Parse(time.DateOnly, cleaned)
	if err != nil {
		return False
	}
	if !probable.Known() {
		return False
	}

	delta := time.Duration(e.thresholds.DaysDelta) * 24 * time.Hour
	if probable.Date.Before(fileDate.Add(-delta)) || probable.Date.After(fileDate.Add(delta)) {
		return False
	}
	return True
}

// Fold combines both criteria; an undetermined criterion fails the file.
func Fold(ips, dates Tristate) bool {
	return ips.Bool() && dates.Bool()
}

// Evaluate runs both criteria and folds them.
func (e *Evaluator) Evaluate(pathDate *string, s *content.Summary, probable content.ProbableDate) Verdict {
	v := Verdict{
		IPs:   e.EvaluateIPs(s),
		Dates: e.EvaluateDates(pathDate, s, probable),
	}
	v.All = Fold(v.IPs, v.Dates)
	return v
}
