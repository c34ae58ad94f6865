package api

import (
	"barefoot/internal/apperr"
	"barefoot/internal/entity"
	"barefoot/internal/guard"
	"context"
)

// Names under which policy checks attach loaded entities.
const (
	currentUserKey = "user"
	tripKey        = "trip"
	facilityKey    = "facility"

	tripParam     = "requestId"
	facilityParam = "facilityId"
)

var (
	requesterOnly  = guard.RequireRole(entity.RoleRequester)
	managerOnly    = guard.RequireRole(entity.RoleManager)
	superAdminOnly = guard.RequireRole(entity.RoleSuperAdmin)
	facilityAdmins = guard.RequireRole(entity.RoleTravelAdmin, entity.RoleSuperAdmin)
)

// loadCurrentUser attaches the token subject's account.
func (h *HTTPHandler) loadCurrentUser() guard.Check {
	return guard.RequireRelation(currentUserKey, func(ctx context.Context, req *guard.Request) (any, error) {
		return h.users.Get(ctx, req.Claims.UserID)
	})
}

// requireManagerAssigned passes when the loaded account has a line manager.
func (h *HTTPHandler) requireManagerAssigned() guard.Check {
	return func(_ context.Context, req *guard.Request) error {
		user, ok := guard.Entity[*entity.DbUser](req, currentUserKey)
		if !ok || !user.HasManager() {
			return apperr.Unauthorized(apperr.MsgNoManager)
		}
		return nil
	}
}

// loadTrip attaches the trip request named by the path.
func (h *HTTPHandler) loadTrip() guard.Check {
	return guard.RequireRelation(tripKey, func(ctx context.Context, req *guard.Request) (any, error) {
		return h.trips.Get(ctx, req.Param(tripParam))
	})
}

func tripOwner() guard.Check {
	return guard.RequireOwnership(func(_ context.Context, req *guard.Request) (string, error) {
		trip, ok := guard.Entity[*entity.DbTripRequest](req, tripKey)
		if !ok {
			return "", apperr.NotFound(apperr.MsgTripNotFound)
		}
		return trip.RequesterID, nil
	})
}

func tripManager() guard.Check {
	return guard.RequireOwnership(func(_ context.Context, req *guard.Request) (string, error) {
		trip, ok := guard.Entity[*entity.DbTripRequest](req, tripKey)
		if !ok {
			return "", apperr.NotFound(apperr.MsgTripNotFound)
		}
		return trip.ManagerID, nil
	})
}

// loadFacility attaches the facility named by the path.
func (h *HTTPHandler) loadFacility() guard.Check {
	return guard.RequireRelation(facilityKey, func(ctx context.Context, req *guard.Request) (any, error) {
		return h.facilities.Get(ctx, req.Param(facilityParam))
	})
}

// notAlreadyReacted fails when the caller's current reaction is already kind.
func (h *HTTPHandler) notAlreadyReacted(kind string) guard.Check {
	return func(ctx context.Context, req *guard.Request) error {
		current, err := h.facilities.Reaction(ctx, req.Param(facilityParam), req.Claims.UserID)
		if err != nil {
			return err
		}
		if current != kind {
			return nil
		}
		if kind == entity.ReactionLike {
			return apperr.Conflict(apperr.MsgAlreadyLiked)
		}
		return apperr.Conflict(apperr.MsgAlreadyUnliked)
	}
}
