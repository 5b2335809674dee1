package linesource

import (
	"compress/bzip2"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipDecoder decodes gzip streams, including concatenated members.
func GzipDecoder(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// Bzip2Decoder decodes bzip2 streams.
func Bzip2Decoder(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(r)), nil
}

// PlainDecoder passes text through unchanged.
func PlainDecoder(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
