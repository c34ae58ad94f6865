package memory

import (
	"barefoot/internal/entity"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTripRequest stores a new trip request. A non-empty profile is applied
// to the requester under the same lock; neither write happens if either fails.
func (r *Repository) CreateTripRequest(ctx context.Context, trip *entity.DbTripRequest, profile entity.UserUpdates) error {
	if err := r.ctxErr(ctx); err != nil {
		return err
	}
	if trip == nil {
		return fmt.Errorf("trip request is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	if _, exists := r.trips[trip.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	now := r.now()
	if !profile.IsEmpty() {
		user, ok := r.users[trip.RequesterID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		profile.Apply(&user)
		user.UpdatedAt = now
		r.users[user.ID] = user
	}
	trip.CreatedAt, trip.UpdatedAt = now, now
	r.trips[trip.ID] = *cloneTrip(*trip)
	return nil
}

// UpdateTripRequest applies updates to a stored trip request.
func (r *Repository) UpdateTripRequest(ctx context.Context, id string, updates entity.TripRequestUpdates) error {
	if err := r.ctxErr(ctx); err != nil {
		return err
	}
	if updates.IsEmpty() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updates.Apply(&trip)
	trip.UpdatedAt = r.now()
	r.trips[id] = trip
	return nil
}

// GetTripRequest loads a trip request by ID.
func (r *Repository) GetTripRequest(ctx context.Context, id string) (*entity.DbTripRequest, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	trip, ok := r.trips[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneTrip(trip), nil
}

// ListTripRequests returns matching trip requests newest first.
func (r *Repository) ListTripRequests(ctx context.Context, params *entity.TripQuery) ([]entity.DbTripRequest, *entity.Meta, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &entity.TripQuery{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.DbTripRequest
	for _, t := range r.trips {
		if params.RequesterID != "" && t.RequesterID != params.RequesterID {
			continue
		}
		if params.ManagerID != "" && t.ManagerID != params.ManagerID {
			continue
		}
		if params.Status != "" && t.Status != params.Status {
			continue
		}
		matched = append(matched, *cloneTrip(t))
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
