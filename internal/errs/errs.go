package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the boundary layer can map it to a status code
// without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalid
	KindCrypto
)

// Error is a typed failure carrying the offending entity and its id.
type Error struct {
	Kind   Kind
	Entity string
	ID     int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.ID != 0:
		return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Msg)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Entity, e.Msg)
	case e.ID != 0:
		return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, kindText(e.Kind))
	default:
		return fmt.Sprintf("%s: %s", e.Entity, kindText(e.Kind))
	}
}

func (e *Error) Unwrap() error { return e.Err }

func kindText(k Kind) string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	case KindCrypto:
		return "crypto failure"
	default:
		return "internal error"
	}
}

// NotFound reports an absent entity.
func NotFound(entity string, id int) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

// Forbidden reports an actor lacking the required role.
func Forbidden(entity string, id int, msg string) *Error {
	return &Error{Kind: KindForbidden, Entity: entity, ID: id, Msg: msg}
}

// Conflict reports a state that refuses the operation (capacity, duplicates,
// invalid transitions).
func Conflict(entity string, id int, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, ID: id, Msg: msg}
}

// Invalid reports malformed input such as an unknown role token.
func Invalid(entity string, msg string) *Error {
	return &Error{Kind: KindInvalid, Entity: entity, Msg: msg}
}

// Crypto reports an encryption or decryption failure.
func Crypto(msg string, err error) *Error {
	return &Error{Kind: KindCrypto, Entity: "message", Msg: msg, Err: err}
}

// Internal wraps an unexpected persistence or runtime failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Entity: "internal", Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error chain to its transport status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	case KindCrypto:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
