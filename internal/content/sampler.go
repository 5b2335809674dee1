package content

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/olegiv/scielo-log-validator-go/internal/accesslog"
	sanitize "github.com/olegiv/scielo-log-validator-go/internal/errors"
	"github.com/olegiv/scielo-log-validator-go/internal/linesource"
)

// DefaultFraction is the share of lines sampled when none is configured.
const DefaultFraction = 0.1

// ErrBadFraction is returned for a sample fraction outside (0, 1].
var ErrBadFraction = errors.New("sample fraction must be greater than 0 and at most 1")

// Opener opens a file as a stream of decoded lines.
type Opener interface {
	Open(path string) (linesource.Lines, error)
}

// InvalidLineFunc is called for every sampled line that could not be used.
// lineNo is the 1-based line number.
type InvalidLineFunc func(lineNo int, line string, err error)

// Option configures a Sampler.
type Option func(*Sampler)

// WithInvalidLineHook registers fn to be told about unusable sampled lines.
func WithInvalidLineHook(fn InvalidLineFunc) Option {
	return func(s *Sampler) {
		s.onInvalid = fn
	}
}

// WithParser replaces the default access-log parser.
func WithParser(p *accesslog.Parser) Option {
	return func(s *Sampler) {
		s.parser = p
	}
}

// Sampler builds a Summary from a deterministic subset of a file's lines.
type Sampler struct {
	opener    Opener
	parser    *accesslog.Parser
	onInvalid InvalidLineFunc
}

// NewSampler creates a Sampler reading files through opener.
func NewSampler(opener Opener, opts ...Option) *Sampler {
	s := &Sampler{
		opener: opener,
		parser: accesslog.NewParser(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Selection is the set of 1-based line numbers a Sampler parses:
// Step, 2*Step and so on up to Count lines.
type Selection struct {
	Step  int
	Count int
}

// Selected reports whether line n is sampled.
func (sel Selection) Selected(n int) bool {
	return n > 0 && sel.Step > 0 && n%sel.Step == 0 && n/sel.Step <= sel.Count
}

// Last returns the highest sampled line number.
func (sel Selection) Last() int {
	return sel.Step * sel.Count
}

// Plan selects the lines sampled out of total. The stride is
// total / floor(total*fraction) and only multiples of it strictly below total
// are kept. When no multiple qualifies the first line is sampled alone.
func Plan(total int, fraction float64) Selection {
	if total <= 0 {
		return Selection{}
	}
	target := int(float64(total) * fraction)
	if target == 0 {
		target = 1
	}
	step := total / target
	count := (total - 1) / step
	if count == 0 {
		return Selection{Step: 1, Count: 1}
	}
	return Selection{Step: step, Count: count}
}

// Summarize reads path twice: once to count its lines and once to parse the
// sampled ones. The file is never held in memory.
func (s *Sampler) Summarize(ctx context.Context, path string, fraction float64) (*Summary, error) {
	if !(fraction > 0 && fraction <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrBadFraction, fraction)
	}

	total, err := s.count(ctx, path)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%s: %w", path, linesource.ErrEmptyFile)
	}

	sel := Plan(total, fraction)

	lines, err := s.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lines.Close() }()

	summary := &Summary{
		Hours:      make(map[HourKey]int),
		TotalLines: total,
	}

	for n := 1; n <= sel.Last(); n++ {
		if (n-1)%linesource.CheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line, err := lines.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w: %d lines counted but only %d read",
				path, linesource.ErrTruncated, total, n-1)
		}
		if err != nil {
			return nil, sanitize.Wrapf(err, "%s", path)
		}

		if !sel.Selected(n) {
			continue
		}
		summary.SampledLines++
		s.fold(summary, n, line)
	}

	return summary, nil
}

func (s *Sampler) count(ctx context.Context, path string) (int, error) {
	lines, err := s.opener.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = lines.Close() }()

	total, err := linesource.Count(ctx, lines)
	if err != nil {
		if errors.Is(err, linesource.ErrTruncated) {
			return 0, sanitize.Wrapf(err, "%s", path)
		}
		return 0, err
	}
	return total, nil
}

// fold adds one sampled line to the summary.
func (s *Sampler) fold(summary *Summary, lineNo int, line string) {
	rec, err := s.parser.Parse(line)
	if err != nil {
		s.invalid(summary, lineNo, line, err)
		return
	}

	origin, err := accesslog.Classify(rec.ClientAddress)
	if err != nil {
		s.invalid(summary, lineNo, line, err)
		return
	}

	switch origin {
	case accesslog.Remote:
		summary.IPs.Remote++
	default:
		summary.IPs.Local++
	}
	summary.Hours[HourKey{Year: rec.Year, Month: rec.Month, Day: rec.Day, Hour: rec.Hour}]++
}

func (s *Sampler) invalid(summary *Summary, lineNo int, line string, err error) {
	summary.InvalidLines++
	if s.onInvalid != nil {
		s.onInvalid(lineNo, line, err)
	}
}
