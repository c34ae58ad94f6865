package guard

import (
	"context"

	"barefoot/internal/apperr"
)

// RequireRole passes when the token's role is one of roles.
func RequireRole(roles ...string) Check {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(_ context.Context, req *Request) error {
		if _, ok := allowed[req.Claims.Role]; !ok {
			return apperr.Unauthorized(apperr.MsgNotAuthorised)
		}
		return nil
	}
}

// RequireVerified passes when the token belongs to a verified account.
func RequireVerified() Check {
	return func(_ context.Context, req *Request) error {
		if !req.Claims.IsVerified {
			return apperr.Unauthorized(apperr.MsgNotVerified)
		}
		return nil
	}
}

// RequireOwnership passes when ownerOf resolves to the token subject.
func RequireOwnership(ownerOf func(ctx context.Context, req *Request) (string, error)) Check {
	return func(ctx context.Context, req *Request) error {
		owner, err := ownerOf(ctx, req)
		if err != nil {
			return err
		}
		if owner == "" || owner != req.Claims.UserID {
			return apperr.Unauthorized(apperr.MsgNotAuthorised)
		}
		return nil
	}
}

// RequireRelation loads an entity with load and attaches it under name.
// load reports predicate failures itself, typically as NotFound or Conflict.
func RequireRelation(name string, load func(ctx context.Context, req *Request) (any, error)) Check {
	return func(ctx context.Context, req *Request) error {
		v, err := load(ctx, req)
		if err != nil {
			return err
		}
		if name != "" {
			req.Set(name, v)
		}
		return nil
	}
}

// Any passes when at least one of checks passes. The first failure is reported otherwise.
func Any(checks ...Check) Check {
	return func(ctx context.Context, req *Request) error {
		var first error
		for _, check := range checks {
			err := check(ctx, req)
			if err == nil {
				return nil
			}
			if first == nil {
				first = err
			}
		}
		if first == nil {
			return apperr.Unauthorized(apperr.MsgNotAuthorised)
		}
		return first
	}
}
