package api

import (
	"barefoot/internal/entity"
	"barefoot/internal/entity/converter"
	"barefoot/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func authResponse(result service.AuthResult) entity.AuthResponse {
	return entity.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      converter.UserToSummary(result.User),
	}
}

// Signup 注册新的申请人账号并发送验证邮件
func (h *HTTPHandler) Signup(c *gin.Context) {
	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.auth.Register(ctx, service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Lang:      h.language(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := authResponse(result)
	emailSent := result.EmailSent
	resp.EmailSent = &emailSent
	key := msgRegistered
	if !emailSent {
		key = msgRegisteredNoEmail
	}
	h.respond(c, http.StatusCreated, key, resp)
}

// Login 邮箱密码登录
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgLoggedIn, authResponse(result))
}

// Logout 客户端丢弃令牌即可
func (h *HTTPHandler) Logout(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.auth.Logout(ctx, CurrentClaims(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgLoggedOut, nil)
}

// VerifyEmail 处理验证邮件中的链接
func (h *HTTPHandler) VerifyEmail(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.auth.VerifyEmail(ctx, CurrentClaims(c), c.Query("email"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgEmailVerified, authResponse(result))
}

// ForgotPassword 发送重置密码邮件
func (h *HTTPHandler) ForgotPassword(c *gin.Context) {
	var req entity.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.auth.ForgotPassword(ctx, req.Email, h.language(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgResetEmailSent, nil)
}

// ResetPassword 使用重置令牌设置新密码
func (h *HTTPHandler) ResetPassword(c *gin.Context) {
	user, ok := guarded[*entity.DbUser](c, currentUserKey)
	if !ok {
		h.respondError(c, errMissingGuardEntity)
		return
	}
	var req entity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.auth.ResetPassword(ctx, user.ID, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, msgPasswordReset, nil)
}
