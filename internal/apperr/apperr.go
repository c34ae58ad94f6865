// Package apperr defines the error taxonomy shared by the service layer, the
// access guard and the HTTP layer. Messages are stable keys that the HTTP layer
// localises before they reach a client.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an error for translation into a transport status.
type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidToken Kind = "invalid_token"
	KindMissingToken Kind = "missing_token"
	KindUnavailable  Kind = "unavailable"
	KindInternal     Kind = "internal"
)

// Stable user-facing message keys.
const (
	MsgNoToken            = "No token provided"
	MsgInvalidToken       = "Invalid token"
	MsgNotAuthorised      = "you are not authorised for this operation"
	MsgBadCredentials     = "Incorrect email or password"
	MsgEmailExists        = "Email already exists"
	MsgUserNotFound       = "The user doesn't exist"
	MsgUserNotFoundReset  = "user not found on reset"
	MsgAlreadyRole        = "The user is already a %s"
	MsgInvalidRole        = "Invalid role"
	MsgUsersMissing       = "One or both user ID's do not exist"
	MsgManagerMismatch    = "User does not exist or they are not a manager or they are both managers"
	MsgNoManager          = "You must have a manager assigned before requesting a trip"
	MsgNotVerified        = "Please verify your email first"
	MsgInvalidPayload     = "invalid request payload"
	MsgChoosePicture      = "Choose an a picture first"
	MsgInvalidImage       = "Only image files are allowed"
	MsgTripNotFound       = "Trip request not found"
	MsgTripNotPending     = "Only pending trip requests can be changed"
	MsgTripNotApproved    = "Only approved trip requests can be confirmed"
	MsgInvalidTrip        = "Invalid trip request: %s"
	MsgFacilityNotFound   = "Facility not found"
	MsgRoomNotFound       = "Room not found"
	MsgRoomUnavailable    = "Room is not available"
	MsgAlreadyLiked       = "You already liked this facility"
	MsgAlreadyUnliked     = "You already unliked this facility"
	MsgInvalidBooking     = "Invalid booking: %s"
	MsgInvalidRating      = "Rating must be a whole number from 1 to 5"
	MsgEmptyFeedback      = "Feedback cannot be empty"
	MsgServerError        = "server error"
	MsgTimeout            = "The request timed out, please try again"
	MsgUnsupportedOAuth   = "Unsupported login provider"
	MsgOAuthFailed        = "External login failed"
	MsgVerificationFailed = "Email verification failed"
)

// Error is a classified error carrying a message key and optional format args.
type Error struct {
	Kind Kind
	Key  string
	Args []any
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message()
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message renders the untranslated message.
func (e *Error) Message() string {
	if len(e.Args) == 0 {
		return e.Key
	}
	return fmt.Sprintf(e.Key, e.Args...)
}

// New creates a classified error.
func New(kind Kind, key string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Args: args}
}

// Wrap classifies err while keeping it in the chain.
func Wrap(kind Kind, err error, key string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Args: args, Err: err}
}

func BadRequest(key string, args ...any) *Error   { return New(KindBadRequest, key, args...) }
func Unauthorized(key string, args ...any) *Error { return New(KindUnauthorized, key, args...) }
func NotFound(key string, args ...any) *Error     { return New(KindNotFound, key, args...) }
func Conflict(key string, args ...any) *Error     { return New(KindConflict, key, args...) }

// Internal wraps an unexpected collaborator failure. Deadline expiry is
// reported as a retryable failure instead.
func Internal(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(KindUnavailable, err, MsgTimeout)
	}
	return Wrap(KindInternal, err, MsgServerError)
}

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf returns the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
