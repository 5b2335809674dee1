package pathinfo

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func show(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		date       *string
		collection *string
		paperboy   bool
		ext        string
	}{
		{
			name:       "paperboy caribbean",
			path:       "/logs/wid/2024-02-20_caribbean.scielo.org.1.log.gz",
			date:       strPtr("2024-02-20"),
			collection: strPtr("wid"),
			paperboy:   true,
			ext:        ".gz",
		},
		{
			name:       "compact date",
			path:       "/logs/access_scielo.ar_20230105.log.bz2",
			date:       strPtr("20230105"),
			collection: strPtr("arg"),
			paperboy:   false,
			ext:        ".bz2",
		},
		{
			name:       "pepsic beats pe",
			path:       "2023-10-01_scielo.pepsic.log.gz",
			date:       strPtr("2023-10-01"),
			collection: strPtr("psi"),
			paperboy:   true,
			ext:        ".gz",
		},
		{
			name:       "peru",
			path:       "2023-10-01_scielo.pe.log",
			date:       strPtr("2023-10-01"),
			collection: strPtr("per"),
			paperboy:   false,
			ext:        ".log",
		},
		{
			name:       "no tokens",
			path:       "/var/log/access.log",
			date:       nil,
			collection: nil,
			paperboy:   false,
			ext:        ".log",
		},
		{
			name:       "date in directory only",
			path:       "/logs/2024-02-20/access",
			date:       nil,
			collection: nil,
			paperboy:   false,
			ext:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.path, DefaultCollections())
			if !equalPtr(got.Date, tt.date) {
				t.Errorf("Date = %s, want %s", show(got.Date), show(tt.date))
			}
			if !equalPtr(got.Collection, tt.collection) {
				t.Errorf("Collection = %s, want %s", show(got.Collection), show(tt.collection))
			}
			if got.Paperboy != tt.paperboy {
				t.Errorf("Paperboy = %v, want %v", got.Paperboy, tt.paperboy)
			}
			if got.Extension != tt.ext {
				t.Errorf("Extension = %q, want %q", got.Extension, tt.ext)
			}
			if got.MimeType != "" {
				t.Errorf("Tokens must not sniff, got MimeType %q", got.MimeType)
			}
		})
	}
}

type stubSniffer struct {
	mime string
	err  error
}

func (s stubSniffer) Sniff(string) (string, error) { return s.mime, s.err }

func TestAnalyze(t *testing.T) {
	s, err := Analyze("2024-02-20_scielo.1.br.log.gz", DefaultCollections(), stubSniffer{mime: "application/gzip"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if s.MimeType != "application/gzip" {
		t.Errorf("MimeType = %q", s.MimeType)
	}
	if show(s.Collection) != "scl" {
		t.Errorf("Collection = %s, want scl", show(s.Collection))
	}

	boom := errors.New("boom")
	s, err = Analyze("2024-02-20_scielo.1.br.log.gz", DefaultCollections(), stubSniffer{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Analyze() error = %v, want %v", err, boom)
	}
	if show(s.Date) != "2024-02-20" {
		t.Errorf("path tokens should survive a sniff failure, got date %s", show(s.Date))
	}
}

func TestCleanDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"20230105", "2023-01-05", false},
		{"2023-01-05", "2023-01-05", false},
		{"2023/01/05", "", true},
		{"230105", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CleanDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CleanDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectionsMatchCustom(t *testing.T) {
	c := Collections{"_site": "s", "_site.extra": "x"}
	if got := c.Match("/data/2024-01-01_site.extra.log"); show(got) != "x" {
		t.Errorf("Match() = %s, want x", show(got))
	}
	if got := (Collections{}).Match("anything"); got != nil {
		t.Errorf("empty table should not match, got %s", *got)
	}
}
