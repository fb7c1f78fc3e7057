// Package errors provides structured error types for the Parley application.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindUnauthorized
	KindConflict
	KindIO
	KindNetwork
	KindConfig
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindIO:
		return "I/O error"
	case KindNetwork:
		return "network error"
	case KindConfig:
		return "configuration error"
	case KindAPI:
		return "api error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for Parley.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
//
// When the underlying error carries a Kind of its own and no Kind was
// given, that Kind is inherited.
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	if e.Kind == KindUnknown {
		e.Kind = GetKind(e.Err)
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// GetKind returns the Kind of an error. Errors outside this package may
// report a Kind by implementing `Kind() Kind`.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnknown {
		return e.Kind
	}
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// New and As re-export the standard library helpers so callers only need
// one errors import.
var (
	New = errors.New
	As  = errors.As
)

// Wrap annotates err with an operation. It returns nil when err is nil.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return E(op, err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Transport errors
func Network(op Op, err error) error {
	return E(op, KindNetwork, err)
}

func Unauthorized(op Op) error {
	return E(op, KindUnauthorized, "not logged in")
}

// Chat errors
func ChatNotFound(id string) error {
	return E(Op("session.SelectChat"), KindNotFound, fmt.Sprintf("chat %s not found", id))
}

func NoCurrentChat(op Op) error {
	return E(op, KindInvalid, "no chat selected")
}

func Invalid(op Op, reason string) error {
	return E(op, KindInvalid, reason)
}
