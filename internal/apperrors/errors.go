package apperrors

import (
	"errors"
	"fmt"
)

// Kind groups errors by how callers are expected to react to them.
type Kind string

const (
	// KindValidation is client-detectable bad input; it blocks submission before any network call.
	KindValidation Kind = "validation"
	// KindAuth covers invalid credentials and expired or invalid tokens.
	KindAuth Kind = "auth"
	// KindPermission is a permission-denied outcome; the session stays intact.
	KindPermission Kind = "permission"
	// KindState is an attempted mutation the lifecycle forbids (posted entry, non-leaf delete).
	KindState Kind = "state"
	// KindTransport is a network or server failure; retryable and never corrupts local state.
	KindTransport Kind = "transport"
	// KindNotFound indicates that a requested resource does not exist.
	KindNotFound Kind = "not_found"
	// KindInternal is anything unexpected.
	KindInternal Kind = "internal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing, invalid or expired credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller lacks the permission for an action.
var ErrForbidden = errors.New("forbidden")

// ErrState indicates an operation that the resource's lifecycle does not allow.
var ErrState = errors.New("invalid state for operation")

// ErrTransport indicates a failure talking to an external collaborator.
var ErrTransport = errors.New("transport failure")

// ErrInternal indicates an unexpected server-side failure.
var ErrInternal = errors.New("internal error")

// Session and transport conditions shared by the gateways and the session.
var (
	ErrInvalidCredentials = NewAuth("InvalidCredentials", "invalid email or password")
	ErrSessionExpired     = NewAuth("SessionExpired", "session expired, sign in again")
	ErrNotAuthenticated   = NewAuth("NotAuthenticated", "not signed in")
	ErrLoginSuperseded    = NewAuth("LoginSuperseded", "login was cancelled by a logout")
	ErrPermissionDenied   = New(KindPermission, "PermissionDenied", "permission denied")
	ErrNetworkFailure     = New(KindTransport, "NetworkFailure", "network failure")
	ErrServerFailure      = New(KindTransport, "ServerFailure", "persistence service failure")
)

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return New(KindInternal, "Internal", message).Wrap(err)
}

var kindSentinels = map[Kind]error{
	KindValidation: ErrValidation,
	KindAuth:       ErrUnauthorized,
	KindPermission: ErrForbidden,
	KindState:      ErrState,
	KindTransport:  ErrTransport,
	KindNotFound:   ErrNotFound,
	KindInternal:   ErrInternal,
}

// Error is a coded business error. errors.Is matches it against another *Error
// with the same kind and code, and against the sentinel of its kind
// (ErrValidation, ErrState, ...).
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// New creates a coded error of the given kind.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// NewValidation creates a validation error.
func NewValidation(code, message string) *Error { return New(KindValidation, code, message) }

// NewState creates a state error.
func NewState(code, message string) *Error { return New(KindState, code, message) }

// NewAuth creates an auth error.
func NewAuth(code, message string) *Error { return New(KindAuth, code, message) }

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the same coded error or the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind && t.Code == e.Code
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// WithDetail returns a copy of e whose message carries extra context.
func (e *Error) WithDetail(format string, args ...any) *Error {
	c := *e
	c.Message = e.Message + ": " + fmt.Sprintf(format, args...)
	return &c
}

// Wrap returns a copy of e that wraps cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// KindOf classifies err. Plain sentinels are recognised too, so errors produced
// with fmt.Errorf("%w", apperrors.ErrNotFound) classify as KindNotFound.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Kind
	}
	if errors.Is(err, ErrDuplicate) {
		return KindValidation
	}
	for _, kind := range []Kind{KindValidation, KindAuth, KindPermission, KindState, KindTransport, KindNotFound} {
		if errors.Is(err, kindSentinels[kind]) {
			return kind
		}
	}
	return KindInternal
}

// CodeOf returns the code of the outermost coded error in err's chain, if any.
func CodeOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
