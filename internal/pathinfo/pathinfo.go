// Package pathinfo derives validation tokens from a log file's path: the
// date it claims to cover, the collection it belongs to and whether it
// follows the paperboy delivery naming convention.
package pathinfo

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	isoDatePattern  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	compactPattern  = regexp.MustCompile(`\d{8}`)
	paperboyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[\w|\.]*\.log\.gz$`)
	cleanISOPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	cleanYMDPattern = regexp.MustCompile(`^\d{8}$`)
)

// Summary holds the tokens extracted from a path.
// Date and Collection are nil when the path carries no such token.
type Summary struct {
	Date       *string `json:"date"`
	Collection *string `json:"collection"`
	Paperboy   bool    `json:"paperboy"`
	MimeType   string  `json:"mimetype"`
	Extension  string  `json:"extension"`
}

// Sniffer returns the content type label of a file.
type Sniffer interface {
	Sniff(path string) (string, error)
}

// Tokens extracts the date, collection, paperboy flag and extension from
// path. It does no I/O; MimeType is left empty.
func Tokens(path string, collections Collections) Summary {
	base := filepath.Base(path)
	return Summary{
		Date:       dateToken(base),
		Collection: collections.Match(path),
		Paperboy:   paperboyPattern.MatchString(base),
		Extension:  filepath.Ext(base),
	}
}

// Analyze returns the path tokens of path together with its sniffed content type.
func Analyze(path string, collections Collections, sniffer Sniffer) (Summary, error) {
	s := Tokens(path, collections)

	mimeType, err := sniffer.Sniff(path)
	if err != nil {
		return s, err
	}
	s.MimeType = mimeType
	return s, nil
}

// dateToken returns the first YYYY-MM-DD substring of name, falling back to
// the first run of eight digits.
func dateToken(name string) *string {
	for _, re := range []*regexp.Regexp{isoDatePattern, compactPattern} {
		if m := re.FindString(name); m != "" {
			return &m
		}
	}
	return nil
}

// CleanDate normalizes a date token to YYYY-MM-DD. YYYYMMDD is reformatted,
// YYYY-MM-DD is returned unchanged and anything else is an error.
func CleanDate(s string) (string, error) {
	switch {
	case cleanYMDPattern.MatchString(s):
		return s[:4] + "-" + s[4:6] + "-" + s[6:], nil
	case cleanISOPattern.MatchString(s):
		return s, nil
	default:
		return "", fmt.Errorf("invalid date format: %q", s)
	}
}

// Collections maps file name identifiers (e.g. "_scielo.ar") to collection codes.
type Collections map[string]string

// Match returns the code of the collection whose identifier occurs in path.
// Longer identifiers are tried first so "_scielo.pepsic" wins over "_scielo.pe".
func (c Collections) Match(path string) *string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) > len(ids[j])
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		if strings.Contains(path, id) {
			code := c[id]
			return &code
		}
	}
	return nil
}

// DefaultCollections returns the built-in identifier table of the SciELO network.
func DefaultCollections() Collections {
	return Collections{
		"_scielo.ar":              "arg",
		"_scielo.bo":              "bol",
		"_scielo.1.br":            "scl",
		"_scielo.2.br":            "scl",
		"_scielo.cl":              "chl",
		"_scielo.co":              "col",
		"_scielo.cr":              "cri",
		"_scielo.cu":              "cub",
		"_scielo.ec":              "ecu",
		"_scielo.mx":              "mex",
		"_scielo.py":              "pry",
		"_scielo.pe":              "per",
		"_scielo.pt":              "prt",
		"_scielo.sp.1":            "spa",
		"_scielo.sp.2":            "spa",
		"_scielo.za":              "sza",
		"_scielo.es":              "esp",
		"_scielo.uy":              "ury",
		"_scielo.ven":             "ven",
		"_caribbean.scielo.org.1": "wid",
		"_caribbean.scielo.org.2": "wid",
		"_scielo.data":            "data",
		"_scielo.preprints":       "preprints",
		"_scielo.pepsic":          "psi",
		"_scielo.revenf":          "rve",
		"_scielo.ss":              "sss",
	}
}
