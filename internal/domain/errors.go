package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can pick a status code
// without inspecting message text.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindAuth        Kind = "authentication"
	KindPermission  Kind = "permission"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindRateLimited Kind = "rate_limited"
	KindInternal    Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	// LineIndex is the zero-based index of the first failing line of a
	// placement request, or -1 when not applicable.
	LineIndex int
}

func (e *Error) Error() string { return e.Message }

func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), LineIndex: -1}
}

// LineE tags an error with the index of the failing placement line.
func LineE(kind Kind, index int, format string, args ...any) *Error {
	err := E(kind, format, args...)
	err.LineIndex = index
	return err
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
