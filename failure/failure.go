// Package failure classifies the fatal errors of a topicpurge run into a
// small, closed set of kinds. Per-topic HTTP outcomes are not failures and
// are reported by package admin as values instead.
package failure

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind of a fatal failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors which were never classified.
	Unknown Kind = iota
	// Config failures occur while loading or validating configuration,
	// before any request is made.
	Config
	// Auth failures occur while resolving a bearer token, before any
	// deletion is attempted.
	Auth
	// Transport failures occur while building or sending an admin request,
	// and abort the remaining deletion loop.
	Transport
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Auth:
		return "auth"
	case Transport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is an error of a specific Kind, raised by operation Op.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Cause returns the underlying error, for github.com/pkg/errors.Cause.
func (e *Error) Cause() error { return e.Err }

// New returns an Error of Kind |kind| for operation |op| with message |msg|.
func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// Newf is New with a formatted message.
func Newf(kind Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

// Wrap returns an Error of Kind |kind| for operation |op| wrapping |err|.
// Wrap of a nil error is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the outer-most Error within |err|'s chain,
// or Unknown if there is none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is returns true if |err| is of Kind |kind|.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
