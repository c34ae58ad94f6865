package api

import (
	"barefoot/internal/entity"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateTrip 返回创建指定类型出差申请的处理函数
func (h *HTTPHandler) CreateTrip(tripType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := guarded[*entity.DbUser](c, currentUserKey)
		if !ok {
			h.respondError(c, errMissingGuardEntity)
			return
		}
		var req entity.TripCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.invalidPayload(c, err)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		trip, err := h.trips.Create(ctx, requester, tripType, req)
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.respond(c, http.StatusCreated, msgTripCreated, trip)
	}
}

// EditTrip 修改自己待审批的出差申请
func (h *HTTPHandler) EditTrip(c *gin.Context) {
	trip, ok := guarded[*entity.DbTripRequest](c, tripKey)
	if !ok {
		h.respondError(c, errMissingGuardEntity)
		return
	}
	var req entity.TripUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	updated, err := h.trips.Update(ctx, trip, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgTripUpdated, updated)
}

// ListOwnTrips 查看自己的出差申请
func (h *HTTPHandler) ListOwnTrips(c *gin.Context) {
	var query entity.TripQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	trips, meta, err := h.trips.ListForRequester(ctx, CurrentClaims(c).UserID, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondItems(c, http.StatusOK, msgSuccess, trips, meta)
}

// ListPendingTrips 经理查看待审批的申请
func (h *HTTPHandler) ListPendingTrips(c *gin.Context) {
	var query entity.TripQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	trips, meta, err := h.trips.Pending(ctx, CurrentClaims(c).UserID, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondItems(c, http.StatusOK, msgSuccess, trips, meta)
}

// ViewTrip 查看单个出差申请
func (h *HTTPHandler) ViewTrip(c *gin.Context) {
	trip, ok := guarded[*entity.DbTripRequest](c, tripKey)
	if !ok {
		h.respondError(c, errMissingGuardEntity)
		return
	}
	h.respond(c, http.StatusOK, msgSuccess, trip)
}

// DecideTrip 返回审批、驳回或确认出差申请的处理函数
func (h *HTTPHandler) DecideTrip(status string) gin.HandlerFunc {
	key := msgTripApproved
	switch status {
	case entity.TripRejected:
		key = msgTripRejected
	case entity.TripConfirmed:
		key = msgTripConfirmed
	}
	return func(c *gin.Context) {
		trip, ok := guarded[*entity.DbTripRequest](c, tripKey)
		if !ok {
			h.respondError(c, errMissingGuardEntity)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		decided, err := h.trips.Decide(ctx, trip, status)
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.respond(c, http.StatusOK, key, decided)
	}
}
