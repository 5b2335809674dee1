// Package validator checks access-log files for consistency between what
// their names claim and what their content shows: the date in the name must
// match the day most requests were made, and the requests must not come
// mostly from local addresses.
package validator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/olegiv/scielo-log-validator-go/internal/content"
	"github.com/olegiv/scielo-log-validator-go/internal/linesource"
	"github.com/olegiv/scielo-log-validator-go/internal/logging"
	"github.com/olegiv/scielo-log-validator-go/internal/pathinfo"
)

// maxLoggedInvalidLines caps the invalid-line debug entries per file.
const maxLoggedInvalidLines = 5

// ErrPathNotFound is returned when the path to validate does not exist.
var ErrPathNotFound = errors.New("path does not exist")

// Mode tells whether a single file or a directory tree is validated.
type Mode string

const (
	ModeFile      Mode = "validate-file"
	ModeDirectory Mode = "validate-directory"
)

// ExecutionMode returns the mode for path. A nonexistent path is an error.
func ExecutionMode(path string) (Mode, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrPathNotFound)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ModeDirectory, nil
	}
	return ModeFile, nil
}

// Options control what is checked for each file.
type Options struct {
	// SampleFraction is the share of lines parsed, in (0, 1].
	SampleFraction float64
	// PathOnly skips content sampling; only the path is analyzed.
	PathOnly bool
}

// Validator runs the path and content checks on files.
type Validator struct {
	registry    *linesource.Registry
	evaluator   *Evaluator
	collections pathinfo.Collections
	log         *logging.SecureLogger
}

// New creates a Validator. A nil registry selects the default decoders,
// nil collections the built-in table and a nil logger discards output.
func New(registry *linesource.Registry, evaluator *Evaluator, collections pathinfo.Collections, log *logging.SecureLogger) *Validator {
	if registry == nil {
		registry = linesource.DefaultRegistry()
	}
	if evaluator == nil {
		evaluator = NewEvaluator(DefaultThresholds())
	}
	if collections == nil {
		collections = pathinfo.DefaultCollections()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Validator{
		registry:    registry,
		evaluator:   evaluator,
		collections: collections,
		log:         log,
	}
}

// ValidateFile validates one file. Per-file problems are reported in
// FileResult.Error; the returned error is only set when ctx is done.
func (v *Validator) ValidateFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &FileResult{Path: path}

	ps, err := pathinfo.Analyze(path, v.collections, v.registry)
	result.PathSummary = &ps
	if err != nil {
		return v.fail(result, err), nil
	}

	if !opts.PathOnly {
		summary, err := v.sample(ctx, path, opts.SampleFraction)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return v.fail(result, err), nil
		}
		result.Content = summary
	}

	var hours map[content.HourKey]int
	if result.Content != nil {
		hours = result.Content.Hours
	}
	result.ProbableDate = content.InferDate(hours)
	result.Verdict = v.evaluator.Evaluate(ps.Date, result.Content, result.ProbableDate)

	v.log.Info().
		Str("path", path).
		Str("ips", result.Verdict.IPs.String()).
		Str("dates", result.Verdict.Dates.String()).
		Bool("all", result.Verdict.All).
		Msg("File validated")

	return result, nil
}

func (v *Validator) sample(ctx context.Context, path string, fraction float64) (*content.Summary, error) {
	if fraction == 0 {
		fraction = content.DefaultFraction
	}

	logged := 0
	sampler := content.NewSampler(v.registry, content.WithInvalidLineHook(func(lineNo int, line string, err error) {
		if logged >= maxLoggedInvalidLines {
			return
		}
		logged++
		v.log.Debug().
			Str("path", path).
			Int("line", lineNo).
			Str("content", line).
			Err(err).
			Msg("Invalid line in sample")
	}))

	return sampler.Summarize(ctx, path, fraction)
}

// fail records err on result with an all-false verdict.
func (v *Validator) fail(result *FileResult, err error) *FileResult {
	result.Error = newFileError(err)
	result.ProbableDate = content.InferDate(nil)
	result.Verdict = Verdict{IPs: Undetermined, Dates: Undetermined, All: false}

	v.log.Warn().
		Str("path", result.Path).
		Str("kind", string(result.Error.Kind)).
		Err(err).
		Msg("File could not be validated")

	return result
}

// ValidateTree validates every regular file under root whose slash-separated
// path relative to root matches include. Files are visited in lexical order
// and each result is passed to fn. A per-file failure never stops the walk;
// an error from fn or a cancelled ctx does.
func (v *Validator) ValidateTree(ctx context.Context, root, include string, opts Options, fn func(*FileResult) error) error {
	if include == "" {
		include = "**"
	}
	if !doublestar.ValidatePattern(include) {
		return fmt.Errorf("invalid include pattern %q", include)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if d != nil && d.IsDir() && path != root {
				v.log.Warn().Str("path", path).Err(walkErr).Msg("Skipping unreadable directory")
				return fs.SkipDir
			}
			if path == root {
				return walkErr
			}
			return fn(v.fail(&FileResult{Path: path}, walkErr))
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		ok, err := doublestar.Match(include, filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("invalid include pattern %q: %w", include, err)
		}
		if !ok {
			return nil
		}

		result, err := v.ValidateFile(ctx, path, opts)
		if err != nil {
			return err
		}
		return fn(result)
	})
}
