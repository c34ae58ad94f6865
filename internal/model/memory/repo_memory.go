// Package memory provides a process-local Repository used for demos and tests.
// It mirrors the gorm implementation's error contract.
package memory

import (
	"barefoot/internal/entity"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository keeps every table in maps guarded by a single mutex.
type Repository struct {
	mu         sync.RWMutex
	users      map[string]entity.DbUser
	emails     map[string]string
	oauthIDs   map[string]string
	trips      map[string]entity.DbTripRequest
	facilities map[string]entity.DbFacility
	rooms      map[string]entity.DbRoom
	reactions  map[string]entity.DbFacilityReaction
	bookings   map[string]entity.DbBooking
	ratings    map[string]entity.DbFacilityRating
	feedback   []entity.DbFacilityFeedback
	nextID     uint
	now        func() time.Time
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		users:      make(map[string]entity.DbUser),
		emails:     make(map[string]string),
		oauthIDs:   make(map[string]string),
		trips:      make(map[string]entity.DbTripRequest),
		facilities: make(map[string]entity.DbFacility),
		rooms:      make(map[string]entity.DbRoom),
		reactions:  make(map[string]entity.DbFacilityReaction),
		bookings:   make(map[string]entity.DbBooking),
		ratings:    make(map[string]entity.DbFacilityRating),
		now:        time.Now,
	}
}

func reactionKey(facilityID, userID string) string {
	return facilityID + "/" + userID
}

func cloneUser(u entity.DbUser) *entity.DbUser {
	if u.ManagerID != nil {
		id := *u.ManagerID
		u.ManagerID = &id
	}
	if u.OAuthID != nil {
		id := *u.OAuthID
		u.OAuthID = &id
	}
	return &u
}

func cloneTrip(t entity.DbTripRequest) *entity.DbTripRequest {
	if t.Stops != nil {
		t.Stops = append(entity.TripStops(nil), t.Stops...)
	}
	return &t
}

func (r *Repository) ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

// CreateUser stores user, rejecting duplicate emails and external ids atomically.
func (r *Repository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if err := r.ctxErr(ctx); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.TrimSpace(user.Email)
	if _, exists := r.emails[email]; exists {
		return gorm.ErrDuplicatedKey
	}
	if user.OAuthID != nil {
		if _, exists := r.oauthIDs[*user.OAuthID]; exists {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, exists := r.users[user.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	now := r.now()
	user.CreatedAt, user.UpdatedAt = now, now

	r.users[user.ID] = *cloneUser(*user)
	r.emails[email] = user.ID
	if user.OAuthID != nil {
		r.oauthIDs[*user.OAuthID] = user.ID
	}
	return nil
}

// UpdateUser applies updates to the stored user.
func (r *Repository) UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error {
	if err := r.ctxErr(ctx); err != nil {
		return err
	}
	if updates.IsEmpty() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updates.Apply(&user)
	user.UpdatedAt = r.now()
	r.users[id] = user
	return nil
}

// GetUserByEmail loads a user by email as stored.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[strings.TrimSpace(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneUser(r.users[id]), nil
}

// GetUserByID loads a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*entity.DbUser, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneUser(user), nil
}

// GetUserByOAuthID loads an externally authenticated user by provider id.
func (r *Repository) GetUserByOAuthID(ctx context.Context, oauthID string) (*entity.DbUser, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.oauthIDs[oauthID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneUser(r.users[id]), nil
}

// ListUsers returns users newest first.
func (r *Repository) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &entity.UserQuery{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword := strings.ToLower(strings.TrimSpace(params.Keyword))
	var matched []entity.DbUser
	for _, u := range r.users {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(u.Email), keyword) &&
			!strings.Contains(strings.ToLower(u.FirstName), keyword) &&
			!strings.Contains(strings.ToLower(u.LastName), keyword) {
			continue
		}
		matched = append(matched, *cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	page, meta := pageOf(len(matched), params.BaseParams)
	return matched[page.start:page.end], meta, nil
}

// CountUsersByRole returns how many users currently hold role.
func (r *Repository) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	if err := r.ctxErr(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, u := range r.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type window struct {
	start, end int
}

func pageOf(total int, params entity.BaseParams) (window, *entity.Meta) {
	page, size, start := params.Window()
	start = min(start, total)
	end := min(start+size, total)
	return window{start: start, end: end}, entity.NewMeta(page, size, int64(total))
}
