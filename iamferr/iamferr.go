/*
NAME
  iamferr.go

DESCRIPTION
  iamferr.go defines the error taxonomy shared by every layer of the IAMF
  codec: a closed set of failure kinds plus a concrete error type that
  records which kind occurred, at which field/context, and why.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package iamferr defines the error taxonomy used across the IAMF bitstream
// codec: InvalidInput, Truncated, Unsupported, RangeError, Overflow,
// FailedPrecondition and Internal, as specified by the IAMF error handling
// design.
package iamferr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which class of failure occurred. The set is closed; new
// members must not be added without updating every switch over Kind.
type Kind uint8

const (
	// InvalidInput indicates a spec constraint was violated: bad enum, out
	// of range value, size mismatch, duplicate unique key, or an illegal
	// combination of fields.
	InvalidInput Kind = iota

	// Truncated indicates a read buffer was exhausted before a field
	// completed.
	Truncated

	// Unsupported indicates a reserved or not-yet-implemented variant, such
	// as a reserved sample frequency index or an unsupported ambisonics
	// mode.
	Unsupported

	// RangeError indicates a numeric cast or Q-format conversion fell
	// outside its legal range.
	RangeError

	// Overflow indicates a ULEB128 decode exceeded 32 bits, or a size field
	// exceeded its stated cap.
	Overflow

	// FailedPrecondition indicates pipeline API misuse, such as pushing a
	// sample frame after flush.
	FailedPrecondition

	// Internal indicates an invariant broken after validation already
	// passed; this should be unreachable.
	Internal
)

// String returns the canonical lower snake_case name of k.
func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case Truncated:
		return "truncated"
	case Unsupported:
		return "unsupported"
	case RangeError:
		return "range_error"
	case Overflow:
		return "overflow"
	case FailedPrecondition:
		return "failed_precondition"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every fallible operation in
// the codec. Context names the field or structure being validated.
type Error struct {
	Kind    Kind
	Context string
	Msg     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Context, e.Msg)
}

// New returns a new *Error of the given kind and context.
func New(k Kind, context, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Context: context, Msg: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with additional context, preserving its Kind when err (or
// something it wraps) is an *Error. If err does not wrap an *Error, the
// result carries no Kind either: KindOf reports Internal with ok == false
// for it.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}

// KindOf unwraps err (following pkg/errors Cause chains) to find the
// underlying *Error and returns its Kind. If err does not wrap an *Error,
// Internal is returned along with ok == false.
func KindOf(err error) (k Kind, ok bool) {
	cause := errors.Cause(err)
	e, ok := cause.(*Error)
	if !ok {
		return Internal, false
	}
	return e.Kind, true
}

// Is reports whether err's underlying Kind equals k.
func Is(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
