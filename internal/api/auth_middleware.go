package api

import (
	"barefoot/internal/auth"
	"barefoot/internal/guard"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	guardRequestContextKey = "guard-request"
	tokenHeader            = "token"
)

// extractToken 依次从 Authorization Bearer、token 头和 token 查询参数中读取令牌
func extractToken(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return header
	}
	if token := strings.TrimSpace(r.Header.Get(tokenHeader)); token != "" {
		return token
	}
	return strings.TrimSpace(r.URL.Query().Get(tokenHeader))
}

// Guard 将访问策略挂到路由上：先校验令牌，再按顺序执行 checks
func (h *HTTPHandler) Guard(checks ...guard.Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		req := guard.NewRequest(extractToken(c.Request), params)
		if err := h.runGuard(c, req, checks); err != nil {
			h.respondError(c, err)
			return
		}
		c.Set(guardRequestContextKey, req)
		c.Next()
	}
}

func (h *HTTPHandler) runGuard(c *gin.Context, req *guard.Request, checks []guard.Check) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	return guard.Run(ctx, h.tokens, req, checks...)
}

// guardRequest 从上下文获取已通过校验的请求
func guardRequest(c *gin.Context) *guard.Request {
	value, exists := c.Get(guardRequestContextKey)
	if !exists {
		return nil
	}
	req, ok := value.(*guard.Request)
	if !ok {
		return nil
	}
	return req
}

// CurrentClaims 从上下文获取当前认证用户的令牌声明
func CurrentClaims(c *gin.Context) *auth.Claims {
	req := guardRequest(c)
	if req == nil {
		return nil
	}
	return req.Claims
}

// guarded returns the entity a policy check attached under name.
func guarded[T any](c *gin.Context, name string) (T, bool) {
	return guard.Entity[T](guardRequest(c), name)
}
