package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"barefoot/internal/apperr"
	"barefoot/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, opts ...auth.Option) *auth.Manager {
	t.Helper()
	mgr, err := auth.NewManager("guard-secret", "barefoot-nomad", time.Hour, opts...)
	require.NoError(t, err)
	return mgr
}

func issue(t *testing.T, mgr *auth.Manager, id, role string, verified bool) string {
	t.Helper()
	token, _, err := mgr.Issue(id, verified, id+"@example.com", role)
	require.NoError(t, err)
	return token
}

func TestRunRequiresToken(t *testing.T) {
	mgr := newManager(t)
	err := Run(context.Background(), mgr, NewRequest("", nil))
	assert.Equal(t, apperr.KindMissingToken, apperr.KindOf(err))

	err = Run(context.Background(), mgr, nil)
	assert.Equal(t, apperr.KindMissingToken, apperr.KindOf(err))
}

func TestRunRejectsInvalidAndExpiredTokens(t *testing.T) {
	now := time.Now()
	mgr := newManager(t, auth.WithClock(func() time.Time { return now }))

	err := Run(context.Background(), mgr, NewRequest("not-a-token", nil))
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))

	token := issue(t, mgr, "user-1", "requester", true)
	now = now.Add(2 * time.Hour)
	err = Run(context.Background(), mgr, NewRequest(token, nil))
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRequireRole(t *testing.T) {
	mgr := newManager(t)
	token := issue(t, mgr, "user-1", "requester", true)

	err := Run(context.Background(), mgr, NewRequest(token, nil), RequireRole("super administrator"))
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUnauthorized, appErr.Kind)
	assert.Equal(t, apperr.MsgNotAuthorised, appErr.Message())

	req := NewRequest(token, nil)
	require.NoError(t, Run(context.Background(), mgr, req, RequireRole("manager", "requester")))
	assert.Equal(t, "user-1", req.Claims.UserID)
}

func TestChecksShortCircuitInOrder(t *testing.T) {
	mgr := newManager(t)
	token := issue(t, mgr, "user-1", "requester", true)

	var ran []string
	record := func(name string, err error) Check {
		return func(context.Context, *Request) error {
			ran = append(ran, name)
			return err
		}
	}
	first := apperr.NotFound(apperr.MsgFacilityNotFound)
	err := Run(context.Background(), mgr, NewRequest(token, nil),
		record("a", nil),
		record("b", first),
		record("c", apperr.Conflict(apperr.MsgAlreadyLiked)),
	)
	assert.Same(t, first, err)
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestCheckFailureWithoutKindBecomesInternal(t *testing.T) {
	mgr := newManager(t)
	token := issue(t, mgr, "user-1", "requester", true)

	err := Run(context.Background(), mgr, NewRequest(token, nil), func(context.Context, *Request) error {
		return errors.New("database down")
	})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	err = Run(context.Background(), mgr, NewRequest(token, nil), func(context.Context, *Request) error {
		return context.DeadlineExceeded
	})
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestRequireRelationAttachesEntity(t *testing.T) {
	mgr := newManager(t)
	token := issue(t, mgr, "user-1", "requester", true)

	type facility struct{ ID string }
	req := NewRequest(token, map[string]string{"facility_id": "f-1"})
	err := Run(context.Background(), mgr, req,
		RequireRelation("facility", func(_ context.Context, r *Request) (any, error) {
			return &facility{ID: r.Param("facility_id")}, nil
		}),
	)
	require.NoError(t, err)

	got, ok := Entity[*facility](req, "facility")
	require.True(t, ok)
	assert.Equal(t, "f-1", got.ID)

	_, ok = Entity[string](req, "facility")
	assert.False(t, ok)
	_, ok = Entity[*facility](req, "missing")
	assert.False(t, ok)
}

func TestRequireOwnership(t *testing.T) {
	mgr := newManager(t)
	token := issue(t, mgr, "owner", "requester", true)

	owned := RequireOwnership(func(context.Context, *Request) (string, error) { return "owner", nil })
	notOwned := RequireOwnership(func(context.Context, *Request) (string, error) { return "someone-else", nil })

	assert.NoError(t, Run(context.Background(), mgr, NewRequest(token, nil), owned))
	err := Run(context.Background(), mgr, NewRequest(token, nil), notOwned)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRequireVerified(t *testing.T) {
	mgr := newManager(t)
	unverified := issue(t, mgr, "user-1", "requester", false)

	err := Run(context.Background(), mgr, NewRequest(unverified, nil), RequireVerified())
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAnyPassesWhenOneCheckPasses(t *testing.T) {
	mgr := newManager(t)
	token := issue(t, mgr, "user-1", "manager", true)

	check := Any(RequireRole("super administrator"), RequireRole("manager"))
	assert.NoError(t, Run(context.Background(), mgr, NewRequest(token, nil), check))

	check = Any(RequireRole("super administrator"), RequireVerified())
	assert.NoError(t, Run(context.Background(), mgr, NewRequest(token, nil), check))

	check = Any(RequireRole("super administrator"), RequireRole("travel administrator"))
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(Run(context.Background(), mgr, NewRequest(token, nil), check)))
}
