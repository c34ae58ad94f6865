package api

import (
	"barefoot/internal/entity"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateFacility 创建住宿设施，可附带 multipart 图片
func (h *HTTPHandler) CreateFacility(c *gin.Context) {
	var req entity.FacilityCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}
	data, ext, err := readImage(c, false)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	facility, err := h.facilities.Create(ctx, CurrentClaims(c).UserID, req, data, ext)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, msgFacilityCreated, facility)
}

// CreateRoom 为设施添加房间
func (h *HTTPHandler) CreateRoom(c *gin.Context) {
	facility, ok := guarded[*entity.DbFacility](c, facilityKey)
	if !ok {
		h.respondError(c, errMissingGuardEntity)
		return
	}
	var req entity.RoomCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	room, err := h.facilities.CreateRoom(ctx, facility, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, msgRoomCreated, room)
}

// ReactToFacility 返回点赞或取消点赞设施的处理函数
func (h *HTTPHandler) ReactToFacility(kind string) gin.HandlerFunc {
	key := msgFacilityLiked
	if kind == entity.ReactionUnlike {
		key = msgFacilityUnliked
	}
	return func(c *gin.Context) {
		facility, ok := guarded[*entity.DbFacility](c, facilityKey)
		if !ok {
			h.respondError(c, errMissingGuardEntity)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		updated, err := h.facilities.React(ctx, facility.ID, CurrentClaims(c).UserID, kind)
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.respond(c, http.StatusOK, key, updated)
	}
}

// RateFacility 为设施评分，分值来自 rating 查询参数
func (h *HTTPHandler) RateFacility(c *gin.Context) {
	facility, ok := guarded[*entity.DbFacility](c, facilityKey)
	if !ok {
		h.respondError(c, errMissingGuardEntity)
		return
	}
	var req entity.FacilityRateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	rated, err := h.facilities.Rate(ctx, facility.ID, CurrentClaims(c).UserID, req.Rating)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgFacilityRated, rated)
}

// LeaveFeedback 对设施留下评价
func (h *HTTPHandler) LeaveFeedback(c *gin.Context) {
	facility, ok := guarded[*entity.DbFacility](c, facilityKey)
	if !ok {
		h.respondError(c, errMissingGuardEntity)
		return
	}
	var req entity.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	feedback, err := h.facilities.Feedback(ctx, facility.ID, CurrentClaims(c).UserID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, msgFeedbackSaved, feedback)
}

// ListFeedback 分页查看设施评价
func (h *HTTPHandler) ListFeedback(c *gin.Context) {
	facility, ok := guarded[*entity.DbFacility](c, facilityKey)
	if !ok {
		h.respondError(c, errMissingGuardEntity)
		return
	}
	var query entity.FeedbackQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	feedback, meta, err := h.facilities.ListFeedback(ctx, facility.ID, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondItems(c, http.StatusOK, msgSuccess, feedback, meta)
}

// BookRoom 预订房间
func (h *HTTPHandler) BookRoom(c *gin.Context) {
	var req entity.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	booking, err := h.facilities.Book(ctx, CurrentClaims(c).UserID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, msgRoomBooked, booking)
}

// ListFacilities 分页查询设施及其房间
func (h *HTTPHandler) ListFacilities(c *gin.Context) {
	var query entity.FacilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	facilities, meta, err := h.facilities.List(ctx, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondItems(c, http.StatusOK, msgSuccess, facilities, meta)
}

// ViewFacility 查看单个设施
func (h *HTTPHandler) ViewFacility(c *gin.Context) {
	facility, ok := guarded[*entity.DbFacility](c, facilityKey)
	if !ok {
		h.respondError(c, errMissingGuardEntity)
		return
	}
	h.respond(c, http.StatusOK, msgSuccess, facility)
}
