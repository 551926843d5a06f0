package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures so that transport and worker layers can react
// without string matching.
type Kind string

const (
	KindInvalidFormat         Kind = "INVALID_FORMAT"
	KindCorruptInput          Kind = "CORRUPT_INPUT"
	KindQueueUnavailable      Kind = "QUEUE_UNAVAILABLE"
	KindEmbeddingUnavailable  Kind = "EMBEDDING_UNAVAILABLE"
	KindGenerationUnavailable Kind = "GENERATION_UNAVAILABLE"
	KindSessionNotFound       Kind = "SESSION_NOT_FOUND"
	KindSessionNotReady       Kind = "SESSION_NOT_READY"
	KindDocumentNotFound      Kind = "DOCUMENT_NOT_FOUND"
	KindInternal              Kind = "INTERNAL"
)

// Error carries a taxonomy kind plus the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a taxonomy error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a taxonomy kind to an underlying error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the taxonomy kind from any error in the chain.
// Unclassified errors report KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
