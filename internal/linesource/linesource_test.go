package linesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// writeGzip writes content gzip-compressed to dir/name and returns the path.
func writeGzip(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write gzip content: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close file: %v", err)
	}
	return path
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func readAll(t *testing.T, lines Lines) []string {
	t.Helper()
	var out []string
	for {
		line, err := lines.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next() unexpected error: %v", err)
		}
		out = append(out, line)
	}
}

// accessLines builds n distinct access-log lines.
func accessLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "187.45.%d.%d - - [21/Feb/2024:%02d:00:00 +0000] \"GET /article/%d HTTP/1.1\" 200 %d\n",
			i%250, (i*7)%250, i%24, i*31, i*13)
	}
	return b.String()
}

func TestOpen_PlainText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.log", []byte("one\r\ntwo\nthree"))

	lines, err := DefaultRegistry().Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = lines.Close() }()

	got := readAll(t, lines)
	want := []string{"one", "two", "three"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestOpen_Gzip(t *testing.T) {
	content := accessLines(50)
	path := writeGzip(t, t.TempDir(), "2024-02-20_scielo.br.log.gz", content)

	lines, err := DefaultRegistry().Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = lines.Close() }()

	got := readAll(t, lines)
	if len(got) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(got))
	}
	if got[0] != strings.SplitN(content, "\n", 2)[0] {
		t.Errorf("first line = %q", got[0])
	}
}

func TestOpen_Bzip2(t *testing.T) {
	lines, err := DefaultRegistry().Open(filepath.Join("testdata", "three.log.bz2"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = lines.Close() }()

	got := readAll(t, lines)
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got))
	}
	if !strings.HasPrefix(got[1], "10.0.0.1 - - [21/Feb/2024:11:00:00 +0000]") {
		t.Errorf("second line = %q", got[1])
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.log.gz", nil)

	_, err := DefaultRegistry().Open(path)
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Open() error = %v, want ErrEmptyFile", err)
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	path := writeFile(t, t.TempDir(), "image.log.gz", png)

	_, err := DefaultRegistry().Open(path)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Open() error = %v, want ErrUnsupportedType", err)
	}
}

func TestOpen_BrokenGzipHeader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.log.gz", []byte{0x1f, 0x8b, 0x08})

	_, err := DefaultRegistry().Open(path)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("Open() error = %v, want ErrTruncated", err)
	}
}

func TestCount_TruncatedGzip(t *testing.T) {
	dir := t.TempDir()
	full := writeGzip(t, dir, "full.log.gz", accessLines(2000))

	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("Failed to read gzip: %v", err)
	}
	path := writeFile(t, dir, "cut.log.gz", data[:len(data)/2])

	lines, err := DefaultRegistry().Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = lines.Close() }()

	_, err = Count(context.Background(), lines)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("Count() error = %v, want ErrTruncated", err)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"trailing newline", "a\nb\nc\n", 3},
		{"no trailing newline", "a\nb\nc", 3},
		{"blank lines count", "a\n\n\nb\n", 4},
		{"single line", "only", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "count.log", []byte(tt.content))
			lines, err := DefaultRegistry().Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer func() { _ = lines.Close() }()

			got, err := Count(context.Background(), lines)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxLineBytes(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	path := writeFile(t, t.TempDir(), "long.log", []byte("short\n"+long+"\nafter\n"))

	r := DefaultRegistry()
	r.SetMaxLineBytes(1024)

	lines, err := r.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = lines.Close() }()

	got := readAll(t, lines)
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got))
	}
	if len(got[1]) != 1024 {
		t.Errorf("long line kept %d bytes, want 1024", len(got[1]))
	}
	if got[2] != "after" {
		t.Errorf("line after long line = %q, want %q", got[2], "after")
	}
}

func TestCount_Cancelled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.log", []byte(accessLines(10)))
	lines, err := DefaultRegistry().Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = lines.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Count(ctx, lines); !errors.Is(err, context.Canceled) {
		t.Errorf("Count() error = %v, want context.Canceled", err)
	}
}
