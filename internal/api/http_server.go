package api

import (
	"barefoot/internal/auth"
	"barefoot/internal/config"
	"barefoot/internal/i18n"
	"barefoot/internal/mail"
	"barefoot/internal/model"
	"barefoot/internal/service"
	"barefoot/internal/storage"
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	storagePublicBase string
	tokens            *auth.Manager
	timeout           time.Duration
	defaultLang       language.Tag

	// 服务层
	auth       *service.AuthService
	users      *service.UserService
	trips      *service.TripService
	facilities *service.FacilityService

	oauth map[string]*oauthProvider
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, mailer mail.Dispatcher) (*HTTPHandler, error) {
	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenExpiry())
	if err != nil {
		return nil, err
	}
	hasher := auth.NewPasswordHasher(cfg.PasswordHashCost)
	publicBase := normalisePublicBase(cfg.StoragePublicBaseURL)

	defaultLang, ok := i18n.Parse(cfg.DefaultLanguage)
	if !ok {
		defaultLang = i18n.Default()
	}

	return &HTTPHandler{
		cfg:               cfg,
		storagePublicBase: publicBase,
		tokens:            tokens,
		timeout:           cfg.RequestTimeout(),
		defaultLang:       defaultLang,
		auth: service.NewAuthService(repo, tokens, hasher, mailer, service.AuthOptions{
			APIBaseURL:  cfg.APIBaseURL,
			FrontendURL: cfg.FrontendURL,
			MailTimeout: cfg.RequestTimeout(),
		}),
		users:      service.NewUserService(repo, store, publicBase),
		trips:      service.NewTripService(repo),
		facilities: service.NewFacilityService(repo, store, publicBase),
		oauth:      newOAuthProviders(cfg),
	}, nil
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

// StoragePublicBase returns the normalised prefix under which stored images are served.
func (h *HTTPHandler) StoragePublicBase() string {
	return h.storagePublicBase
}

// requestContext bounds the store and mail calls made for one request.
func (h *HTTPHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
