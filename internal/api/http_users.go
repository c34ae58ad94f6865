package api

import (
	"barefoot/internal/apperr"
	"barefoot/internal/entity"
	"barefoot/internal/entity/converter"
	"barefoot/internal/utils"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SetRoles 超级管理员修改用户角色
func (h *HTTPHandler) SetRoles(c *gin.Context) {
	var req entity.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.users.SetRole(ctx, CurrentClaims(c).UserID, req.Email, req.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgRolesUpdated, converter.UserToSummary(user))
}

// AssignManager 为用户指定直属经理
func (h *HTTPHandler) AssignManager(c *gin.Context) {
	var req entity.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.users.AssignManager(ctx, CurrentClaims(c).UserID, req.ID, req.ManagerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgManagerAssigned, converter.UserToSummary(user))
}

// ListUsers 分页查询用户
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	users, meta, err := h.users.ListUsers(ctx, &query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondItems(c, http.StatusOK, msgSuccess, users, meta)
}

// ViewProfile 查看当前用户资料
func (h *HTTPHandler) ViewProfile(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	profile, err := h.users.ViewProfile(ctx, CurrentClaims(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgProfileDetails, profile)
}

// EditProfile 修改当前用户资料
func (h *HTTPHandler) EditProfile(c *gin.Context) {
	var req entity.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	profile, err := h.users.EditProfile(ctx, CurrentClaims(c).UserID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgProfileUpdated, profile)
}

// EditProfileImage 上传头像，支持 multipart 文件或 JSON data URL
func (h *HTTPHandler) EditProfileImage(c *gin.Context) {
	data, ext, err := readImage(c, true)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	url, err := h.users.UploadProfileImage(ctx, CurrentClaims(c).UserID, data, ext)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgImageUploaded, gin.H{"image": url})
}

const imageField = "image"

// readImage 读取请求中的图片；未上传时返回空数据
func readImage(c *gin.Context, allowJSON bool) ([]byte, string, error) {
	if fh, err := c.FormFile(imageField); err == nil {
		data, ext, err := utils.ReadImageFile(fh)
		if err != nil {
			return nil, "", imageError(err)
		}
		return data, ext, nil
	}
	if !allowJSON || !strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		return nil, "", nil
	}
	var payload struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		return nil, "", apperr.Wrap(apperr.KindBadRequest, err, apperr.MsgInvalidPayload)
	}
	if strings.TrimSpace(payload.Image) == "" {
		return nil, "", nil
	}
	data, ext, err := utils.DecodeImagePayload(payload.Image)
	if err != nil {
		return nil, "", imageError(err)
	}
	return data, ext, nil
}

func imageError(err error) error {
	if errors.Is(err, utils.ErrNotImage) || errors.Is(err, utils.ErrImageTooLarge) {
		return apperr.Wrap(apperr.KindBadRequest, err, apperr.MsgInvalidImage)
	}
	return apperr.Wrap(apperr.KindBadRequest, err, apperr.MsgInvalidPayload)
}
