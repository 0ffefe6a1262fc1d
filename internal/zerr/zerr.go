// Package zerr defines the structured error kinds shared across the
// stream, inflate, zipwalk, and root packages.
package zerr

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies an error the way callers are expected to branch on,
// independent of its formatted message.
type Kind int

const (
	// OutOfMemory means an allocation failed.
	OutOfMemory Kind = iota
	// IO means a host file read/open/seek failed.
	IO
	// OutOfRangeSeek means a seek landed outside [0, length].
	OutOfRangeSeek
	// InflateEOF means the input stream ended mid-symbol.
	InflateEOF
	// InflateCorrupt means a bad block type, bad stored len/nlen, or
	// malformed Huffman table was encountered.
	InflateCorrupt
	// NotSeekable means Seek was called on a stream that does not support it.
	NotSeekable
	// NotDuplicable means Duplicate was called on a stream that does not support it.
	NotDuplicable
	// Unsupported means a recognized-but-unimplemented feature was requested,
	// such as a ZIP compression method other than stored or deflated.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case OutOfMemory:
		return "out-of-memory"
	case IO:
		return "io"
	case OutOfRangeSeek:
		return "out-of-range-seek"
	case InflateEOF:
		return "inflate-eof"
	case InflateCorrupt:
		return "inflate-corrupt"
	case NotSeekable:
		return "not-seekable"
	case NotDuplicable:
		return "not-duplicable"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the concrete structured error type. Prefix matches spec's
// "[prefix: ]message" wire format: the inflate package uses "(inflate)",
// file-backed streams use the path.
type Error struct {
	Kind   Kind
	Prefix string
	msg    string
	cause  error
}

func (e *Error) Error() string {
	if e.Prefix == "" {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.Prefix, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a fresh structured error with a stack trace attached.
func New(kind Kind, prefix, msg string) error {
	return errors.WithStack(&Error{Kind: kind, Prefix: prefix, msg: msg})
}

// Newf is New with fmt.Sprintf-style formatting of msg.
func Newf(kind Kind, prefix, format string, args ...any) error {
	return New(kind, prefix, fmt.Sprintf(format, args...))
}

// Wrap attaches a kind and prefix to an existing error (typically one
// returned by the standard library, e.g. *os.PathError).
func Wrap(kind Kind, prefix string, cause error) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, Prefix: prefix, msg: cause.Error(), cause: cause})
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = errors.Unwrap(err)
			e = nil
			continue
		}
		break
	}
	return false
}
