package linesource

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Registry maps content type labels to decoders and opens files through them.
// It provides thread-safe access to the registered decoders.
type Registry struct {
	mu           sync.RWMutex
	decoders     map[string]Decoder
	sniff        func(path string) (string, error)
	maxLineBytes int
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders:     make(map[string]Decoder),
		sniff:        Sniff,
		maxLineBytes: DefaultMaxLineBytes,
	}
}

// DefaultRegistry returns a registry with the gzip, bzip2 and plain text
// decoders registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(MimeGzip, GzipDecoder)
	r.MustRegister(MimeXGzip, GzipDecoder)
	r.MustRegister(MimeBzip2, Bzip2Decoder)
	r.MustRegister(MimeText, PlainDecoder)
	r.MustRegister(MimeAppText, PlainDecoder)
	return r
}

// SetMaxLineBytes bounds the bytes kept per line for files opened afterwards.
func (r *Registry) SetMaxLineBytes(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 {
		n = DefaultMaxLineBytes
	}
	r.maxLineBytes = n
}

// Register adds a decoder for a content type.
// If a decoder for the same type already exists, it will be overwritten.
func (r *Registry) Register(mimeType string, decoder Decoder) error {
	if mimeType == "" {
		return fmt.Errorf("content type cannot be empty")
	}
	if mimeType == MimeEmpty {
		return fmt.Errorf("cannot register a decoder for %s", MimeEmpty)
	}
	if decoder == nil {
		return fmt.Errorf("decoder for %s cannot be nil", mimeType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.decoders[mimeType] = decoder
	return nil
}

// MustRegister is like Register but panics on error.
// Use this only with constant arguments.
func (r *Registry) MustRegister(mimeType string, decoder Decoder) {
	if err := r.Register(mimeType, decoder); err != nil {
		panic(err)
	}
}

// Get retrieves the decoder for a content type.
func (r *Registry) Get(mimeType string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decoder, ok := r.decoders[mimeType]
	return decoder, ok
}

// List returns all registered content types in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.decoders))
	for t := range r.decoders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Sniff returns the content type label of the file at path.
func (r *Registry) Sniff(path string) (string, error) {
	return r.sniff(path)
}

// Open sniffs the file and returns its lines decoded with the matching decoder.
// It fails with ErrEmptyFile for empty files, ErrUnsupportedType when no
// decoder is registered and ErrTruncated when the decoder cannot even start.
func (r *Registry) Open(path string) (Lines, error) {
	mimeType, err := r.sniff(path)
	if err != nil {
		return nil, err
	}

	if mimeType == MimeEmpty {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	decoder, ok := r.Get(mimeType)
	if !ok {
		return nil, fmt.Errorf("%s (%s, want one of %s): %w",
			path, mimeType, strings.Join(r.List(), ", "), ErrUnsupportedType)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	decoded, err := decoder(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w: %w", path, ErrTruncated, err)
	}

	r.mu.RLock()
	maxLineBytes := r.maxLineBytes
	r.mu.RUnlock()

	return newLineReader(file, decoded, maxLineBytes), nil
}
