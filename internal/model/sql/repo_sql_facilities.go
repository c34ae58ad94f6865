package sql

import (
	"barefoot/internal/entity"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateFacility inserts a new facility.
func (r *GormRepository) CreateFacility(ctx context.Context, facility *entity.DbFacility) error {
	if err := r.ready(); err != nil {
		return err
	}
	if facility == nil {
		return fmt.Errorf("facility is nil")
	}
	if facility.ID == "" {
		facility.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Omit("Rooms").Create(facility).Error
}

// GetFacility loads a facility with its rooms.
func (r *GormRepository) GetFacility(ctx context.Context, id string) (*entity.DbFacility, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var facility entity.DbFacility
	err := r.db.WithContext(ctx).
		Preload("Rooms", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&facility).Error
	if err != nil {
		return nil, err
	}
	return &facility, nil
}

// ListFacilities returns paginated facilities with their rooms.
func (r *GormRepository) ListFacilities(ctx context.Context, params *entity.FacilityQuery) ([]entity.DbFacility, *entity.Meta, error) {
	if err := r.ready(); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &entity.FacilityQuery{}
	}

	query := r.db.WithContext(ctx).Model(&entity.DbFacility{})
	if location := strings.TrimSpace(params.Location); location != "" {
		query = query.Where("LOWER(location) = ?", strings.ToLower(location))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize, offset := params.Window()
	var facilities []entity.DbFacility
	err := query.
		Preload("Rooms", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&facilities).Error
	if err != nil {
		return nil, nil, err
	}
	return facilities, entity.NewMeta(page, pageSize, total), nil
}

// CreateRoom inserts a room under an existing facility.
func (r *GormRepository) CreateRoom(ctx context.Context, room *entity.DbRoom) error {
	if err := r.ready(); err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("room is nil")
	}
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.Status == "" {
		room.Status = entity.RoomAvailable
	}
	return r.db.WithContext(ctx).Create(room).Error
}

// GetRoom loads a room by ID.
func (r *GormRepository) GetRoom(ctx context.Context, id string) (*entity.DbRoom, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var room entity.DbRoom
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// GetFacilityReaction loads a user's reaction to a facility.
func (r *GormRepository) GetFacilityReaction(ctx context.Context, facilityID, userID string) (*entity.DbFacilityReaction, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var reaction entity.DbFacilityReaction
	err := r.db.WithContext(ctx).
		Where("facility_id = ? AND user_id = ?", facilityID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// SetFacilityReaction records kind for the user and adjusts the facility counters.
func (r *GormRepository) SetFacilityReaction(ctx context.Context, facilityID, userID, kind string) (*entity.DbFacility, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if kind != entity.ReactionLike && kind != entity.ReactionUnlike {
		return nil, fmt.Errorf("invalid reaction %q", kind)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.DbFacilityReaction
		err := tx.Where("facility_id = ? AND user_id = ?", facilityID, userID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Kind == kind {
				return nil
			}
			if err := tx.Model(&existing).Update("kind", kind).Error; err != nil {
				return err
			}
			if err := adjustReactionCounter(tx, facilityID, existing.Kind, -1); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := entity.DbFacilityReaction{FacilityID: facilityID, UserID: userID, Kind: kind}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return adjustReactionCounter(tx, facilityID, kind, 1)
	})
	if err != nil {
		return nil, err
	}
	return r.GetFacility(ctx, facilityID)
}

func adjustReactionCounter(tx *gorm.DB, facilityID, kind string, delta int) error {
	column := "likes"
	if kind == entity.ReactionUnlike {
		column = "unlikes"
	}
	result := tx.Model(&entity.DbFacility{}).
		Where("id = ?", facilityID).
		Update(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateBooking claims an available room and records the booking atomically.
func (r *GormRepository) CreateBooking(ctx context.Context, booking *entity.DbBooking) error {
	if err := r.ready(); err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking is nil")
	}
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.DbRoom{}).
			Where("id = ? AND facility_id = ? AND status = ?", booking.RoomID, booking.FacilityID, entity.RoomAvailable).
			Update("status", entity.RoomBooked)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrRoomUnavailable
		}
		return tx.Create(booking).Error
	})
}

// RateFacility upserts the user's score and refreshes the facility average.
func (r *GormRepository) RateFacility(ctx context.Context, facilityID, userID string, rating int) (*entity.DbFacility, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("invalid rating %d", rating)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.DbFacilityRating
		err := tx.Where("facility_id = ? AND user_id = ?", facilityID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).Update("rating", rating).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			score := entity.DbFacilityRating{FacilityID: facilityID, UserID: userID, Rating: rating}
			if err := tx.Create(&score).Error; err != nil {
				return err
			}
		default:
			return err
		}

		var agg struct {
			Average float64
			Total   int64
		}
		err = tx.Model(&entity.DbFacilityRating{}).
			Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
			Where("facility_id = ?", facilityID).
			Scan(&agg).Error
		if err != nil {
			return err
		}
		result := tx.Model(&entity.DbFacility{}).
			Where("id = ?", facilityID).
			Updates(map[string]interface{}{"rating": agg.Average, "rating_count": agg.Total})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&entity.DbFacility{}).Where("id = ?", facilityID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetFacility(ctx, facilityID)
}

// CreateFacilityFeedback stores a comment on an existing facility.
func (r *GormRepository) CreateFacilityFeedback(ctx context.Context, feedback *entity.DbFacilityFeedback) error {
	if err := r.ready(); err != nil {
		return err
	}
	if feedback == nil {
		return fmt.Errorf("feedback is nil")
	}
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(feedback).Error
}

// ListFacilityFeedback returns a facility's feedback newest first.
func (r *GormRepository) ListFacilityFeedback(ctx context.Context, params *entity.FeedbackQuery) ([]entity.DbFacilityFeedback, *entity.Meta, error) {
	if err := r.ready(); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &entity.FeedbackQuery{}
	}
	query := r.db.WithContext(ctx).Model(&entity.DbFacilityFeedback{}).Where("facility_id = ?", params.FacilityID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}
	page, pageSize, offset := params.Window()
	var feedback []entity.DbFacilityFeedback
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&feedback).Error; err != nil {
		return nil, nil, err
	}
	return feedback, entity.NewMeta(page, pageSize, total), nil
}
