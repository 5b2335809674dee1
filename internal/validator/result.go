package validator

import (
	"encoding/json"
	"errors"

	"github.com/olegiv/scielo-log-validator-go/internal/content"
	sanitize "github.com/olegiv/scielo-log-validator-go/internal/errors"
	"github.com/olegiv/scielo-log-validator-go/internal/linesource"
	"github.com/olegiv/scielo-log-validator-go/internal/pathinfo"
)

// ErrorKind classifies why a file could not be validated.
type ErrorKind string

const (
	KindUnsupportedType ErrorKind = "unsupported_type"
	KindEmptyFile       ErrorKind = "empty_file"
	KindTruncatedFile   ErrorKind = "truncated_file"
	KindUnreadable      ErrorKind = "unreadable"
)

// FileError describes a per-file failure. It never aborts a directory walk.
type FileError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// newFileError maps err to its kind. The message is sanitized because read
// errors may quote file content.
func newFileError(err error) *FileError {
	kind := KindUnreadable
	switch {
	case errors.Is(err, linesource.ErrUnsupportedType):
		kind = KindUnsupportedType
	case errors.Is(err, linesource.ErrEmptyFile):
		kind = KindEmptyFile
	case errors.Is(err, linesource.ErrTruncated):
		kind = KindTruncatedFile
	}
	return &FileError{Kind: kind, Message: sanitize.SanitizeString(err.Error())}
}

// FileResult is everything learned about one file.
type FileResult struct {
	Path         string
	PathSummary  *pathinfo.Summary
	Content      *content.Summary
	ProbableDate content.ProbableDate
	Verdict      Verdict
	Error        *FileError
}

// MarshalJSON renders the probable date as YYYY-MM-DD or {"error": "..."}.
func (r FileResult) MarshalJSON() ([]byte, error) {
	var probable any
	if r.ProbableDate.Known() {
		probable = r.ProbableDate.String()
	} else {
		probable = map[string]string{"error": r.ProbableDate.String()}
	}

	return json.Marshal(struct {
		Path         string            `json:"path"`
		PathSummary  *pathinfo.Summary `json:"path_summary"`
		Content      *content.Summary  `json:"content"`
		ProbableDate any               `json:"probable_date"`
		Verdict      Verdict           `json:"is_valid"`
		Error        *FileError        `json:"error,omitempty"`
	}{r.Path, r.PathSummary, r.Content, probable, r.Verdict, r.Error})
}
