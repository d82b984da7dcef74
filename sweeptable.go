package sweeptable

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Sentinel errors, use errors.Is to test for them.
var (
	// ErrConfig is returned when the schema is declared incorrectly or too
	// late, or when a store is used against its lifecycle.
	ErrConfig = errors.New("sweeptable: invalid configuration")

	// ErrShape is returned when a row does not match the column count.
	ErrShape = errors.New("sweeptable: shape mismatch")

	// ErrIO wraps filesystem failures.
	ErrIO = errors.New("sweeptable: i/o failure")

	// ErrParse is wrapped by every ParseError.
	ErrParse = errors.New("sweeptable: parse error")

	// ErrReshapeUnavailable is returned by Reshape when the data does
	// not describe a complete nested sweep. It is not a failure, callers
	// should fall back to the flat rows.
	ErrReshapeUnavailable = errors.New("sweeptable: reshape unavailable")

	// ErrReshapeNotSimple is returned by Reshape when the discovered
	// dimensions are not monotonically ordered in column order.
	ErrReshapeNotSimple = fmt.Errorf("%w: reshape not simple", ErrReshapeUnavailable)
)

var (
	errReadOnly  = fmt.Errorf("%w: store is read-only", ErrConfig)
	errNotOpen   = fmt.Errorf("%w: file-backed store was not created", ErrConfig)
	errHeader    = fmt.Errorf("%w: header already written", ErrConfig)
	errNoBacking = fmt.Errorf("%w: store has no memory backing", ErrConfig)
	errNoData    = fmt.Errorf("%w: no data specified", ErrShape)
)

// ShapeError is returned when a row length does not match the number of
// declared columns.
type ShapeError struct {
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("sweeptable: shape mismatch, expected %d columns, got %d", e.Expected, e.Actual)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// ParseError is returned when a body line of a data file cannot be parsed.
type ParseError struct {
	File string // the file name, if known
	Line int    // 1-based line number
	Text string // offending field
	Err  error  // underlying error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sweeptable: parse error in %s at line %d, bad field %q: %v", e.File, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

func ioError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// --------------------------------------------------------------------

// Backing selects the sinks fed by Append.
type Backing uint8

// Supported backings, can be combined.
const (
	FileBacked Backing = 1 << iota
	MemoryBacked
)

// InFile returns true if rows are streamed to the file.
func (b Backing) InFile() bool { return b&FileBacked != 0 }

// InMemory returns true if rows are retained in memory.
func (b Backing) InMemory() bool { return b&MemoryBacked != 0 }

// SettingsProvider exposes the current state of external
// collaborators, keyed by collaborator name and parameter.
type SettingsProvider interface {
	Settings() map[string]map[string]interface{}
}

// Options define store specific options.
type Options struct {
	// Backing selects where appended rows go.
	// Default: FileBacked.
	Backing Backing

	// DefaultPrecision is the number of digits after the decimal point
	// for columns without their own precision or format.
	// Default: 12.
	DefaultPrecision int

	// Generator produces file paths when Create is called without one.
	// Default: a DateTimeGenerator rooted at the working directory.
	Generator FilenameGenerator

	// Settings, if set, is snapshotted to a companion settings file
	// on Create.
	Settings SettingsProvider

	// Tolerance is the absolute tolerance used when detecting coordinate
	// periods. Default: 0, values must be exactly equal.
	Tolerance float64

	// Logger receives warnings. Default: discard.
	Logger *slog.Logger

	// Now returns the creation time of a store. Default: time.Now.
	Now func() time.Time
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.Backing == 0 {
		oo.Backing = FileBacked
	}
	if oo.DefaultPrecision < 1 {
		oo.DefaultPrecision = 12
	}
	if oo.Generator == nil {
		oo.Generator = NewDateTimeGenerator("")
	}
	if oo.Tolerance < 0 {
		oo.Tolerance = 0
	}
	if oo.Logger == nil {
		oo.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if oo.Now == nil {
		oo.Now = time.Now
	}

	return &oo
}
