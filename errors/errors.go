package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseHeader       Phase = "header"        // container signature and fixed header
	PhaseDecompress   Phase = "decompress"    // whole-body decompression
	PhaseTag          Phase = "tag"           // tag framing and dispatch
	PhaseModule       Phase = "module"        // bytecode module tables
	PhaseConstantPool Phase = "constant_pool" // constant pool sections
	PhaseValidate     Phase = "validate"      // cross-table index checks
	PhaseQuery        Phase = "query"         // index resolution on the result
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedFormat Kind = "unsupported_format"
	KindDecompression     Kind = "decompression"
	KindMalformedInput    Kind = "malformed_input"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindTruncated         Kind = "truncated"
	KindOverflow          Kind = "overflow"
	KindInvalidEnum       Kind = "invalid_enum"
	KindUnavailable       Kind = "unavailable"
)

// Category folds detail kinds into the three top-level failure classes.
// Out-of-bounds, truncation, overflow and unknown enum values are all
// malformed input.
func (k Kind) Category() Kind {
	switch k {
	case KindOutOfBounds, KindTruncated, KindOverflow, KindInvalidEnum:
		return KindMalformedInput
	default:
		return k
	}
}

// Sentinels for errors.Is. They match on category and ignore phase.
var (
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrDecompression     = &Error{Kind: KindDecompression}
	ErrMalformedInput    = &Error{Kind: KindMalformedInput}
)

// Error is the structured error type used throughout the decoder
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Offset int // byte offset in the unit being decoded, -1 if unknown
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an empty
// Phase matches any phase; kinds are compared by exact value first and then
// by category, so a truncation matches ErrMalformedInput.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return t.Kind == e.Kind || t.Kind == e.Kind.Category()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the table path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnsupportedFormat creates an unsupported signature/compression error
func UnsupportedFormat(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedFormat,
		Detail: detail,
		Offset: -1,
	}
}

// Decompression creates a corrupt-body error
func Decompression(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecompress,
		Kind:   KindDecompression,
		Detail: detail,
		Cause:  cause,
		Offset: -1,
	}
}

// Malformed creates a generic malformed input error
func Malformed(phase Phase, path []string, offset int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedInput,
		Path:   path,
		Detail: detail,
		Offset: offset,
	}
}

// Truncated creates a truncation error
func Truncated(phase Phase, path []string, offset int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Path:   path,
		Detail: "unexpected end of data",
		Cause:  cause,
		Offset: offset,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
		Offset: -1,
	}
}

// Overflow creates an error for an encoded value that does not fit limit
func Overflow(phase Phase, path []string, offset int, limit string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: "invalid " + limit,
		Cause:  cause,
		Offset: offset,
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, path []string, offset int, value any, enumType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Path:   path,
		Detail: fmt.Sprintf("invalid %s 0x%02x", enumType, value),
		Value:  value,
		Offset: offset,
	}
}

// Unavailable reports optional data that is absent from the input
func Unavailable(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnavailable,
		Path:   path,
		Detail: what + " not recorded",
		Offset: -1,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
