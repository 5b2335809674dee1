// Package linesource opens access-log files and yields their decoded text
// lines, whatever the compression. The decoder is picked from the sniffed
// content type, never from the file extension.
package linesource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// DefaultMaxLineBytes bounds the bytes kept for a single line.
	DefaultMaxLineBytes = 1 << 20

	// CheckInterval is how many lines are read between context checks.
	CheckInterval = 4096
)

var (
	// ErrUnsupportedType is returned when no decoder is registered for the
	// sniffed content type.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrEmptyFile is returned when the file has no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrTruncated is returned when the stream cannot be read to its end,
	// usually because a compressed file was cut short or is corrupt.
	ErrTruncated = errors.New("file appears truncated")
)

// Lines is a finite, non-restartable sequence of decoded text lines.
type Lines interface {
	// Next returns the next line without its line terminator.
	// It returns io.EOF after the last line.
	Next() (string, error)

	// Close releases the decoder and the underlying file.
	Close() error
}

// Decoder wraps the raw file stream with a decompressor.
type Decoder func(r io.Reader) (io.ReadCloser, error)

// Compile-time interface check
var _ Lines = (*lineReader)(nil)

// lineReader streams lines from a decoded file.
// Lines longer than maxLineBytes are cut; the remainder of the physical line
// is discarded and the line still counts once.
type lineReader struct {
	file         *os.File
	decoded      io.ReadCloser
	br           *bufio.Reader
	maxLineBytes int
}

func newLineReader(file *os.File, decoded io.ReadCloser, maxLineBytes int) *lineReader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &lineReader{
		file:         file,
		decoded:      decoded,
		br:           bufio.NewReaderSize(decoded, 64*1024),
		maxLineBytes: maxLineBytes,
	}
}

// Next implements Lines.Next.
func (l *lineReader) Next() (string, error) {
	var line []byte
	consumed := false

	for {
		chunk, err := l.br.ReadSlice('\n')
		if len(chunk) > 0 {
			consumed = true
			if room := l.maxLineBytes - len(line); room > 0 {
				if len(chunk) > room {
					chunk = chunk[:room]
				}
				line = append(line, chunk...)
			}
		}

		switch {
		case err == nil:
			return trimEOL(line), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if consumed {
				return trimEOL(line), nil
			}
			return "", io.EOF
		default:
			return "", fmt.Errorf("%w: %w", ErrTruncated, err)
		}
	}
}

// Close implements Lines.Close.
func (l *lineReader) Close() error {
	decErr := l.decoded.Close()
	fileErr := l.file.Close()
	if decErr != nil {
		return decErr
	}
	return fileErr
}

func trimEOL(b []byte) string {
	n := len(b)
	if n > 0 && b[n-1] == '\n' {
		n--
		if n > 0 && b[n-1] == '\r' {
			n--
		}
	}
	return string(b[:n])
}

// Count reads lines until the end of the stream and returns how many there were.
// A read failure before the end is reported as ErrTruncated.
func Count(ctx context.Context, lines Lines) (int, error) {
	total := 0
	for {
		if total%CheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return total, err
			}
		}
		_, err := lines.Next()
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		total++
	}
}
