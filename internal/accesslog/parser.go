// Package accesslog extracts the client address and the request hour from
// Apache/Nginx access-log lines and classifies addresses as local or remote.
package accesslog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the layout of the bracketed request time once the
// zone offset has been dropped, e.g. 21/Feb/2024:10:00:00.
const TimestampLayout = "2/Jan/2006:15:04:05"

var (
	// ErrNoMatch is returned when a line does not look like an access-log record.
	ErrNoMatch = errors.New("line does not match access log pattern")

	// ErrBadTimestamp is returned when the bracketed timestamp cannot be parsed.
	ErrBadTimestamp = errors.New("malformed request timestamp")
)

// Record is the part of an access-log line the validator cares about.
type Record struct {
	ClientAddress string
	Year          int
	Month         time.Month
	Day           int
	Hour          int
}

// Parser matches access-log lines. An optional free-text prefix ending in a
// space may precede the client address (virtual host, syslog header, ...).
// Format: [prefix ]a.b.c.d - - [date] "request" trailing
type Parser struct {
	re *regexp.Regexp
}

// NewParser returns a Parser for the combined access-log format.
func NewParser() *Parser {
	return &Parser{
		re: regexp.MustCompile(`^([\w|\W]* |)(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}) - - \[(.*)\] (".*")(.*)$`),
	}
}

var defaultParser = NewParser()

// Parse parses line with the default parser.
func Parse(line string) (Record, error) {
	return defaultParser.Parse(line)
}

// Parse extracts the client address and the request hour from line.
func (p *Parser) Parse(line string) (Record, error) {
	matches := p.re.FindStringSubmatch(line)
	if matches == nil || matches[2] == "" || matches[3] == "" {
		return Record{}, ErrNoMatch
	}

	ts, err := ParseTimestamp(matches[3])
	if err != nil {
		return Record{}, err
	}

	return Record{
		ClientAddress: matches[2],
		Year:          ts.Year(),
		Month:         ts.Month(),
		Day:           ts.Day(),
		Hour:          ts.Hour(),
	}, nil
}

// ParseTimestamp parses a bracketed request time such as
// "21/Feb/2024:10:00:00 +0000". The zone offset is ignored; the returned
// time carries the wall clock as written.
func ParseTimestamp(s string) (time.Time, error) {
	wall, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	t, err := time.Parse(TimestampLayout, wall)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}
	return t, nil
}
