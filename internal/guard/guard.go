// Package guard evaluates the access policy attached to a protected operation.
//
// A policy is an ordered list of checks. Run first requires a token, then
// verifies it, then runs each check in turn. The first failure wins and later
// checks never run. Checks can load entities and attach them to the request so
// the operation does not query for them again.
package guard

import (
	"context"
	"errors"
	"sync"

	"barefoot/internal/apperr"
	"barefoot/internal/auth"
)

// Verifier turns a raw token into claims.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Check is a single capability predicate.
type Check func(ctx context.Context, req *Request) error

// Request carries the token, the verified claims and anything loaded by checks.
type Request struct {
	Token  string
	Claims *auth.Claims
	Params map[string]string

	mu       sync.RWMutex
	entities map[string]any
}

// NewRequest builds a request for token with optional named parameters.
func NewRequest(token string, params map[string]string) *Request {
	if params == nil {
		params = map[string]string{}
	}
	return &Request{Token: token, Params: params}
}

// Param returns a named request parameter such as a path or body id.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// Set attaches a loaded entity under name.
func (r *Request) Set(name string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entities == nil {
		r.entities = make(map[string]any)
	}
	r.entities[name] = v
}

// Get returns the entity attached under name.
func (r *Request) Get(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entities[name]
	return v, ok
}

// Entity returns the entity attached under name as T.
func Entity[T any](r *Request, name string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	v, ok := r.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Run evaluates presence, validity and then checks in order.
func Run(ctx context.Context, verifier Verifier, req *Request, checks ...Check) error {
	if req == nil || req.Token == "" {
		return apperr.New(apperr.KindMissingToken, apperr.MsgNoToken)
	}
	claims, err := verifier.Verify(req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			return apperr.Wrap(apperr.KindMissingToken, err, apperr.MsgNoToken)
		}
		return apperr.Wrap(apperr.KindInvalidToken, err, apperr.MsgInvalidToken)
	}
	req.Claims = claims

	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return apperr.Internal(err)
		}
		if err := check(ctx, req); err != nil {
			if _, ok := apperr.As(err); ok {
				return err
			}
			return apperr.Internal(err)
		}
	}
	return nil
}
