package model

import (
	"barefoot/internal/entity"
	"context"
)

// Repository 定义数据库操作接口
//
// 查询不到记录时返回 gorm.ErrRecordNotFound，唯一约束冲突时返回 gorm.ErrDuplicatedKey。
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id string) (*entity.DbUser, error)
	GetUserByOAuthID(ctx context.Context, oauthID string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)

	// 出差申请
	// CreateTripRequest 插入申请；profile 非空时在同一事务内更新申请人资料
	CreateTripRequest(ctx context.Context, trip *entity.DbTripRequest, profile entity.UserUpdates) error
	UpdateTripRequest(ctx context.Context, id string, updates entity.TripRequestUpdates) error
	GetTripRequest(ctx context.Context, id string) (*entity.DbTripRequest, error)
	ListTripRequests(ctx context.Context, params *entity.TripQuery) ([]entity.DbTripRequest, *entity.Meta, error)

	// 住宿设施
	CreateFacility(ctx context.Context, facility *entity.DbFacility) error
	GetFacility(ctx context.Context, id string) (*entity.DbFacility, error)
	ListFacilities(ctx context.Context, params *entity.FacilityQuery) ([]entity.DbFacility, *entity.Meta, error)
	CreateRoom(ctx context.Context, room *entity.DbRoom) error
	GetRoom(ctx context.Context, id string) (*entity.DbRoom, error)
	GetFacilityReaction(ctx context.Context, facilityID, userID string) (*entity.DbFacilityReaction, error)
	// SetFacilityReaction 记录用户对设施的态度，并同步调整设施上的计数
	SetFacilityReaction(ctx context.Context, facilityID, userID, kind string) (*entity.DbFacility, error)
	// CreateBooking 仅在房间可用时预订，否则返回 entity.ErrRoomUnavailable
	CreateBooking(ctx context.Context, booking *entity.DbBooking) error
	// RateFacility 写入或覆盖用户评分，并重新计算设施的平均分
	RateFacility(ctx context.Context, facilityID, userID string, rating int) (*entity.DbFacility, error)
	CreateFacilityFeedback(ctx context.Context, feedback *entity.DbFacilityFeedback) error
	ListFacilityFeedback(ctx context.Context, params *entity.FeedbackQuery) ([]entity.DbFacilityFeedback, *entity.Meta, error)
}
