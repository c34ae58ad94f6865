package sql

import (
	"barefoot/internal/entity"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var userSortColumns = map[string]struct{}{
	"created_at": {},
	"email":      {},
	"role":       {},
	"first_name": {},
	"last_name":  {},
}

// CreateUser persists a new user record. Duplicate emails surface as gorm.ErrDuplicatedKey.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if err := r.ready(); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateUser updates an existing user entry.
func (r *GormRepository) UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error {
	if err := r.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid user")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetUserByEmail loads a user by email as stored.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("email = ?", trimmed).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id string) (*entity.DbUser, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByOAuthID loads an externally authenticated user by provider id.
func (r *GormRepository) GetUserByOAuthID(ctx context.Context, oauthID string) (*entity.DbUser, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(oauthID) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("oauth_id = ?", oauthID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns paginated users.
func (r *GormRepository) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	if err := r.ready(); err != nil {
		return nil, nil, err
	}
	if params == nil {
		params = &entity.UserQuery{}
	}

	query := r.db.WithContext(ctx).Model(&entity.DbUser{})
	if trimmed := strings.TrimSpace(params.Role); trimmed != "" {
		query = query.Where("role = ?", trimmed)
	}
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		kw := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", kw, kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize, offset := params.Window()
	var users []entity.DbUser
	order := orderClause(params.BaseParams, userSortColumns, "created_at DESC")
	if err := query.Order(order).Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, nil, err
	}

	return users, entity.NewMeta(page, pageSize, total), nil
}

// CountUsersByRole returns how many users currently hold role.
func (r *GormRepository) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	if err := r.ready(); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
