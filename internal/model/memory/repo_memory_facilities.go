package memory

import (
	"barefoot/internal/entity"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateFacility stores a new facility.
func (r *Repository) CreateFacility(ctx context.Context, facility *entity.DbFacility) error {
	if err := r.ctxErr(ctx); err != nil {
		return err
	}
	if facility == nil {
		return fmt.Errorf("facility is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if facility.ID == "" {
		facility.ID = uuid.NewString()
	}
	if _, exists := r.facilities[facility.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	now := r.now()
	facility.CreatedAt, facility.UpdatedAt = now, now
	stored := *facility
	stored.Rooms = nil
	stored.Amenities = append(entity.StringArray(nil), facility.Amenities...)
	r.facilities[facility.ID] = stored
	return nil
}

// facilityWithRooms must be called with the lock held.
func (r *Repository) facilityWithRooms(f entity.DbFacility) entity.DbFacility {
	f.Amenities = append(entity.StringArray(nil), f.Amenities...)
	f.Rooms = []entity.DbRoom{}
	for _, room := range r.rooms {
		if room.FacilityID == f.ID {
			f.Rooms = append(f.Rooms, room)
		}
	}
	sort.Slice(f.Rooms, func(i, j int) bool {
		if f.Rooms[i].CreatedAt.Equal(f.Rooms[j].CreatedAt) {
			return f.Rooms[i].ID < f.Rooms[j].ID
		}
		return f.Rooms[i].CreatedAt.Before(f.Rooms[j].CreatedAt)
	})
	return f
}

// GetFacility loads a facility with its rooms.
func (r *Repository) GetFacility(ctx context.Context, id string) (*entity.DbFacility, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.facilities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.facilityWithRooms(f)
	return &out, nil
}

// ListFacilities returns facilities newest first.
func (r *Repository) ListFacilities(ctx context.Context, params *entity.FacilityQuery) ([]entity.DbFacility, *entity.Meta, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &entity.FacilityQuery{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	location := strings.ToLower(strings.TrimSpace(params.Location))
	var matched []entity.DbFacility
	for _, f := range r.facilities {
		if location != "" && strings.ToLower(f.Location) != location {
			continue
		}
		matched = append(matched, r.facilityWithRooms(f))
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

// CreateRoom stores a room.
func (r *Repository) CreateRoom(ctx context.Context, room *entity.DbRoom) error {
	if err := r.ctxErr(ctx); err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("room is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.Status == "" {
		room.Status = entity.RoomAvailable
	}
	now := r.now()
	room.CreatedAt, room.UpdatedAt = now, now
	r.rooms[room.ID] = *room
	return nil
}

// GetRoom loads a room by ID.
func (r *Repository) GetRoom(ctx context.Context, id string) (*entity.DbRoom, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &room, nil
}

// GetFacilityReaction loads a user's reaction to a facility.
func (r *Repository) GetFacilityReaction(ctx context.Context, facilityID, userID string) (*entity.DbFacilityReaction, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	reaction, ok := r.reactions[reactionKey(facilityID, userID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &reaction, nil
}

// SetFacilityReaction records kind for the user and adjusts the facility counters.
func (r *Repository) SetFacilityReaction(ctx context.Context, facilityID, userID, kind string) (*entity.DbFacility, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	if kind != entity.ReactionLike && kind != entity.ReactionUnlike {
		return nil, fmt.Errorf("invalid reaction %q", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	facility, ok := r.facilities[facilityID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	key := reactionKey(facilityID, userID)
	now := r.now()
	existing, found := r.reactions[key]
	switch {
	case found && existing.Kind == kind:
		out := r.facilityWithRooms(facility)
		return &out, nil
	case found:
		adjustCounter(&facility, existing.Kind, -1)
		existing.Kind = kind
		existing.UpdatedAt = now
		r.reactions[key] = existing
	default:
		r.nextID++
		r.reactions[key] = entity.DbFacilityReaction{
			ID:         r.nextID,
			CreatedAt:  now,
			UpdatedAt:  now,
			FacilityID: facilityID,
			UserID:     userID,
			Kind:       kind,
		}
	}
	adjustCounter(&facility, kind, 1)
	facility.UpdatedAt = now
	r.facilities[facilityID] = facility
	out := r.facilityWithRooms(facility)
	return &out, nil
}

func adjustCounter(f *entity.DbFacility, kind string, delta int) {
	if kind == entity.ReactionUnlike {
		f.Unlikes += delta
		return
	}
	f.Likes += delta
}

// CreateBooking claims an available room and records the booking atomically.
func (r *Repository) CreateBooking(ctx context.Context, booking *entity.DbBooking) error {
	if err := r.ctxErr(ctx); err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[booking.RoomID]
	if !ok || room.FacilityID != booking.FacilityID || room.Status != entity.RoomAvailable {
		return entity.ErrRoomUnavailable
	}
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = r.now()
	room.Status = entity.RoomBooked
	room.UpdatedAt = booking.CreatedAt
	r.rooms[room.ID] = room
	r.bookings[booking.ID] = *booking
	return nil
}

// RateFacility upserts the user's score and refreshes the facility average.
func (r *Repository) RateFacility(ctx context.Context, facilityID, userID string, rating int) (*entity.DbFacility, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("invalid rating %d", rating)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	facility, ok := r.facilities[facilityID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	now := r.now()
	key := reactionKey(facilityID, userID)
	score, found := r.ratings[key]
	if !found {
		score = entity.DbFacilityRating{FacilityID: facilityID, UserID: userID, CreatedAt: now}
	}
	score.Rating = rating
	score.UpdatedAt = now
	r.ratings[key] = score

	var sum, count int64
	for _, s := range r.ratings {
		if s.FacilityID == facilityID {
			sum += int64(s.Rating)
			count++
		}
	}
	facility.Rating = float64(sum) / float64(count)
	facility.RatingCount = count
	facility.UpdatedAt = now
	r.facilities[facilityID] = facility
	out := r.facilityWithRooms(facility)
	return &out, nil
}

// CreateFacilityFeedback stores a comment on an existing facility.
func (r *Repository) CreateFacilityFeedback(ctx context.Context, feedback *entity.DbFacilityFeedback) error {
	if err := r.ctxErr(ctx); err != nil {
		return err
	}
	if feedback == nil {
		return fmt.Errorf("feedback is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.facilities[feedback.FacilityID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	feedback.CreatedAt = r.now()
	r.feedback = append(r.feedback, *feedback)
	return nil
}

// ListFacilityFeedback returns a facility's feedback newest first.
func (r *Repository) ListFacilityFeedback(ctx context.Context, params *entity.FeedbackQuery) ([]entity.DbFacilityFeedback, *entity.Meta, error) {
	if err := r.ctxErr(ctx); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &entity.FeedbackQuery{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []entity.DbFacilityFeedback{}
	for i := len(r.feedback) - 1; i >= 0; i-- {
		if r.feedback[i].FacilityID == params.FacilityID {
			matched = append(matched, r.feedback[i])
		}
	}
	page, meta := pageOf(len(matched), params.BaseParams)
	return matched[page.start:page.end], meta, nil
}
