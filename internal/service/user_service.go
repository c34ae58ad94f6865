package service

import (
	"barefoot/internal/apperr"
	"barefoot/internal/entity"
	"barefoot/internal/entity/converter"
	"barefoot/internal/model"
	"barefoot/internal/storage"
	"context"
	"strings"
)

// UserService 用户管理服务
type UserService struct {
	repo   model.Repository
	images imageStore
}

// NewUserService 创建用户服务实例
func NewUserService(repo model.Repository, store storage.Storage, publicBase string) *UserService {
	return &UserService{
		repo:   repo,
		images: imageStore{storage: store, publicBase: publicBase},
	}
}

// requireSuperAdmin re-reads the actor so a stale token role cannot grant access.
func (s *UserService) requireSuperAdmin(ctx context.Context, actorID string) error {
	actor, err := s.repo.GetUserByID(ctx, actorID)
	if err != nil {
		return lookupErr(err, apperr.Unauthorized(apperr.MsgNotAuthorised))
	}
	if actor.Role != entity.RoleSuperAdmin {
		return apperr.Unauthorized(apperr.MsgNotAuthorised)
	}
	return nil
}

// SetRole changes the role of the account with email.
func (s *UserService) SetRole(ctx context.Context, actorID, email, role string) (*entity.DbUser, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !entity.ValidRole(role) {
		return nil, apperr.BadRequest(apperr.MsgInvalidRole)
	}
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if role == entity.RoleSuperAdmin {
		count, err := s.repo.CountUsersByRole(ctx, entity.RoleSuperAdmin)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if count >= entity.MaxSuperAdmins {
			return nil, apperr.Unauthorized(apperr.MsgNotAuthorised)
		}
	}

	target, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	if target.Role == role {
		return nil, apperr.Conflict(apperr.MsgAlreadyRole, role)
	}
	if err := s.repo.UpdateUser(ctx, target.ID, entity.UserUpdates{Role: &role}); err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	target.Role = role
	return target, nil
}

// AssignManager makes managerID the approver of userID.
func (s *UserService) AssignManager(ctx context.Context, actorID, userID, managerID string) (*entity.DbUser, error) {
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	user, userErr := s.repo.GetUserByID(ctx, strings.TrimSpace(userID))
	manager, managerErr := s.repo.GetUserByID(ctx, strings.TrimSpace(managerID))
	for _, err := range []error{userErr, managerErr} {
		if err != nil {
			return nil, lookupErr(err, apperr.Unauthorized(apperr.MsgUsersMissing))
		}
	}
	if manager.Role != entity.RoleManager || user.Role == entity.RoleManager {
		return nil, apperr.Unauthorized(apperr.MsgManagerMismatch)
	}

	id, name := manager.ID, manager.FullName()
	if err := s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{ManagerID: &id, ManagerName: &name}); err != nil {
		return nil, lookupErr(err, apperr.Unauthorized(apperr.MsgUsersMissing))
	}
	user.ManagerID = &id
	user.ManagerName = name
	return user, nil
}

// Get loads the account with id.
func (s *UserService) Get(ctx context.Context, id string) (*entity.DbUser, error) {
	user, err := s.repo.GetUserByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	return user, nil
}

// ListUsers returns a page of users.
func (s *UserService) ListUsers(ctx context.Context, query *entity.UserQuery) ([]entity.UserSummary, *entity.Meta, error) {
	users, meta, err := s.repo.ListUsers(ctx, query)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return converter.UsersToSummaries(users), meta, nil
}

// ViewProfile returns the profile of userID.
func (s *UserService) ViewProfile(ctx context.Context, userID string) (entity.UserProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return entity.UserProfile{}, lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	return converter.UserToProfile(user), nil
}

// EditProfile applies req to the profile of userID.
func (s *UserService) EditProfile(ctx context.Context, userID string, req entity.ProfileUpdateRequest) (entity.UserProfile, error) {
	if err := s.repo.UpdateUser(ctx, userID, req.Updates()); err != nil {
		return entity.UserProfile{}, lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	return s.ViewProfile(ctx, userID)
}

// UploadProfileImage stores data as the profile picture of userID and returns its URL.
func (s *UserService) UploadProfileImage(ctx context.Context, userID string, data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", apperr.BadRequest(apperr.MsgChoosePicture)
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return "", lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	url, err := s.images.save(ctx, storage.CategoryProfile, data, ext)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if err := s.repo.UpdateUser(ctx, userID, entity.UserUpdates{Image: &url}); err != nil {
		return "", lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	return url, nil
}
