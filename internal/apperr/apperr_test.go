package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageFormatsArgs(t *testing.T) {
	err := Conflict(MsgAlreadyRole, "manager")
	assert.Equal(t, "The user is already a manager", err.Message())
	assert.Equal(t, "The user is already a manager", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindInternal, cause, MsgServerError)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "server error: disk full", err.Error())
}

func TestInternalClassifiesDeadlines(t *testing.T) {
	assert.Equal(t, KindUnavailable, Internal(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindUnavailable, Internal(fmt.Errorf("query: %w", context.Canceled)).Kind)
	assert.Equal(t, KindInternal, Internal(errors.New("boom")).Kind)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", NotFound(MsgUserNotFound))))
	assert.True(t, Is(Unauthorized(MsgNotAuthorised), KindUnauthorized))
	assert.False(t, Is(BadRequest(MsgInvalidPayload), KindConflict))
}
