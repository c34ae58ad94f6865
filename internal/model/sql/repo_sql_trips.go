package sql

import (
	"barefoot/internal/entity"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var tripSortColumns = map[string]struct{}{
	"created_at":     {},
	"departure_date": {},
	"status":         {},
}

// CreateTripRequest inserts a new trip request and applies profile to the
// requester in the same transaction.
func (r *GormRepository) CreateTripRequest(ctx context.Context, trip *entity.DbTripRequest, profile entity.UserUpdates) error {
	if err := r.ready(); err != nil {
		return err
	}
	if trip == nil {
		return fmt.Errorf("trip request is nil")
	}
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trip).Error; err != nil {
			return err
		}
		if profile.IsEmpty() {
			return nil
		}
		result := tx.Model(&entity.DbUser{}).Where("id = ?", trip.RequesterID).Updates(profile.ToMap())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		// MySQL reports zero affected rows when nothing changed.
		var count int64
		if err := tx.Model(&entity.DbUser{}).Where("id = ?", trip.RequesterID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpdateTripRequest updates trip request fields.
func (r *GormRepository) UpdateTripRequest(ctx context.Context, id string, updates entity.TripRequestUpdates) error {
	if err := r.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid trip request id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbTripRequest{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetTripRequest loads a trip request by ID.
func (r *GormRepository) GetTripRequest(ctx context.Context, id string) (*entity.DbTripRequest, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var trip entity.DbTripRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// ListTripRequests returns paginated trip requests matching params.
func (r *GormRepository) ListTripRequests(ctx context.Context, params *entity.TripQuery) ([]entity.DbTripRequest, *entity.Meta, error) {
	if err := r.ready(); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &entity.TripQuery{}
	}

	query := r.db.WithContext(ctx).Model(&entity.DbTripRequest{})
	if params.RequesterID != "" {
		query = query.Where("requester_id = ?", params.RequesterID)
	}
	if params.ManagerID != "" {
		query = query.Where("manager_id = ?", params.ManagerID)
	}
	if status := strings.TrimSpace(params.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize, offset := params.Window()
	var trips []entity.DbTripRequest
	order := orderClause(params.BaseParams, tripSortColumns, "created_at DESC")
	if err := query.Order(order).Offset(offset).Limit(pageSize).Find(&trips).Error; err != nil {
		return nil, nil, err
	}
	return trips, entity.NewMeta(page, pageSize, total), nil
}
