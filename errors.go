package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeIdentityExists  = "IDENTITY_EXISTS"
	TextCodeUnauthorized    = "UNAUTHORIZED"
	TextCodeBadRequest      = "BAD_REQUEST"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
	TextCodeInternal        = "INTERNAL"
	TextCodeInvalidRecord   = "INVALID_RECORD"
	TextCodeSessionNotFound = "SESSION_NOT_FOUND"
)

// ErrIdentityExists is returned by signup when the identity key is taken
var ErrIdentityExists = errors.New("identity already exists", errors.CategoryConflict).
	WithTextCode(TextCodeIdentityExists).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is returned for unknown identities and wrong passwords alike.
// Both cases share the same message, code and text code.
var ErrInvalidCredentials = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken is returned for every rejected bearer token. It is
// indistinguishable from ErrInvalidCredentials on the wire.
var ErrInvalidToken = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrUnableToFindSession is returned when a request has no resolved session
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// IsConflict reports whether err belongs to the Conflict taxonomy
func IsConflict(err error) bool {
	richErr, ok := asRichError(err)
	return ok && richErr.Category == errors.CategoryConflict
}

// IsUnauthorized reports whether err belongs to the Unauthorized taxonomy
func IsUnauthorized(err error) bool {
	richErr, ok := asRichError(err)
	return ok && richErr.Category == errors.CategoryAuth
}

// IsInternal reports whether err is an infrastructure failure. Errors that
// carry no category are treated as internal.
func IsInternal(err error) bool {
	if err == nil {
		return false
	}
	richErr, ok := asRichError(err)
	if !ok {
		return true
	}
	return richErr.Category == errors.CategoryInternal
}

// IsBadRequest reports whether err is a validation or input error
func IsBadRequest(err error) bool {
	richErr, ok := asRichError(err)
	if !ok {
		return false
	}
	return richErr.Category == errors.CategoryValidation || richErr.Category == errors.CategoryBadInput
}

func asRichError(err error) (*errors.Error, bool) {
	if err == nil {
		return nil, false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return nil, false
	}
	return richErr, true
}

// internalError wraps err as an Internal error. Wrapping a categorized error
// keeps its metadata but always reports the Internal category.
func internalError(err error, message string) error {
	if err == nil {
		err = errors.New(message, errors.CategoryInternal)
	}
	wrapped := errors.Wrap(err, errors.CategoryInternal, message)
	wrapped.Category = errors.CategoryInternal
	return wrapped.
		WithTextCode(TextCodeInternal).
		WithCode(errors.CodeInternal)
}

// ErrCredentialNotFound is returned by stores when no record matches the key.
// It never leaves the orchestrator.
var ErrCredentialNotFound = errors.New("credential not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)
