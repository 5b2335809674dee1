package linesource

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SniffBytes is how much of the file is inspected to determine its type.
const SniffBytes = 2048

// Content type labels handled by the default registry.
const (
	MimeGzip    = "application/gzip"
	MimeXGzip   = "application/x-gzip"
	MimeBzip2   = "application/x-bzip2"
	MimeText    = "text/plain"
	MimeAppText = "application/text"
	MimeEmpty   = "application/x-empty"
)

// Sniff returns the content type label of the file at path, looking only at
// its first SniffBytes bytes. A zero-length file is labelled MimeEmpty.
func Sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, SniffBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Detect(buf[:n]), nil
}

// Detect returns the content type label for a byte prefix.
func Detect(prefix []byte) string {
	if len(prefix) == 0 {
		return MimeEmpty
	}
	return label(mimetype.Detect(prefix))
}

// label normalizes a detected type. Anything in the text family (CSV, TSV
// and friends are children of text/plain) is reported as text/plain, and
// parameters such as charset are dropped.
func label(m *mimetype.MIME) string {
	for p := m; p != nil; p = p.Parent() {
		if p.Is(MimeText) {
			return MimeText
		}
	}
	base, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(base)
}
