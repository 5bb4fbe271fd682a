// Package tdferrors defines the single tagged error type shared across the
// TDF core, following the structured-error idiom used throughout the
// Certen codebase (see LiteClientError): one enum of kinds, a message, and
// optional structured context rather than ad-hoc sentinel values per
// package.
package tdferrors

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories from the TDF error taxonomy.
type Kind string

const (
	// MalformedArchive indicates a structural parse failure in the outer
	// container; Context["component"] names the entry that failed.
	MalformedArchive Kind = "MALFORMED_ARCHIVE"

	// GuardViolation indicates the Resource Guard rejected input before a
	// full parse; Context["limit"] names the limit that was hit.
	GuardViolation Kind = "GUARD_VIOLATION"

	// InvalidDocument indicates a §3 semantic rule was broken at build time.
	InvalidDocument Kind = "INVALID_DOCUMENT"

	// IntegrityFailure indicates a recomputed component hash, or the root,
	// differs from what was declared; Context["component"] names the part.
	IntegrityFailure Kind = "INTEGRITY_FAILURE"

	// SignatureFailure indicates one signature could not be verified;
	// Context["signer_id"] and Context["reason"] are populated.
	SignatureFailure Kind = "SIGNATURE_FAILURE"

	// Revoked indicates a revocation is effective against a signature;
	// Context["signer_id"] is populated.
	Revoked Kind = "REVOKED"

	// CryptoError indicates an underlying primitive failed.
	CryptoError Kind = "CRYPTO_ERROR"

	// IoError indicates a caller-supplied source or sink failed.
	IoError Kind = "IO_ERROR"
)

// SignatureFailureReason enumerates the §7 reasons for a SignatureFailure.
type SignatureFailureReason string

const (
	ReasonBadBytes            SignatureFailureReason = "bad-bytes"
	ReasonWrongKey            SignatureFailureReason = "wrong-key"
	ReasonDisallowedAlgorithm SignatureFailureReason = "disallowed-algorithm"
	ReasonTimestampInvalid    SignatureFailureReason = "timestamp-invalid"
)

// Error is the single tagged error type the TDF core ever returns.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]string
	Cause   error
}

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error that wraps an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// With attaches a context key/value and returns the receiver for chaining.
func (e *Error) With(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string, 2)
	}
	e.Context[key] = value
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	for k, v := range e.Context {
		msg += fmt.Sprintf(" [%s=%s]", k, v)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *Error with the same Kind, enabling
// errors.Is(err, tdferrors.New(tdferrors.GuardViolation, "")) style checks
// when only the Kind matters.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
