package api

import (
	"barefoot/internal/apperr"
	"barefoot/internal/config"
	"barefoot/internal/service"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600
)

// oauthProvider 封装一个第三方登录提供方
type oauthProvider struct {
	name   string
	config *oauth2.Config
	// identify exchanges an authorization code for the provider's view of the user.
	identify func(ctx context.Context, code string) (service.ExternalIdentity, error)
}

type userInfoDecoder func(body []byte) (service.ExternalIdentity, error)

// newOAuthProviders 仅注册已配置客户端凭据的提供方
func newOAuthProviders(cfg config.Config) map[string]*oauthProvider {
	providers := make(map[string]*oauthProvider)
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")

	if cfg.OAuthGoogleClientID != "" {
		providers["google"] = newOAuthProvider("google", &oauth2.Config{
			ClientID:     cfg.OAuthGoogleClientID,
			ClientSecret: cfg.OAuthGoogleClientSecret,
			Endpoint:     endpoints.Google,
			RedirectURL:  base + "/api/v1/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
		}, "https://www.googleapis.com/oauth2/v3/userinfo", decodeGoogleUser)
	}
	if cfg.OAuthFacebookClientID != "" {
		providers["facebook"] = newOAuthProvider("facebook", &oauth2.Config{
			ClientID:     cfg.OAuthFacebookClientID,
			ClientSecret: cfg.OAuthFacebookClientSecret,
			Endpoint:     endpoints.Facebook,
			RedirectURL:  base + "/api/v1/auth/facebook/callback",
			Scopes:       []string{"email"},
		}, "https://graph.facebook.com/me?fields=id,email,first_name,last_name", decodeFacebookUser)
	}
	return providers
}

func newOAuthProvider(name string, conf *oauth2.Config, userInfoURL string, decode userInfoDecoder) *oauthProvider {
	return &oauthProvider{
		name:   name,
		config: conf,
		identify: func(ctx context.Context, code string) (service.ExternalIdentity, error) {
			token, err := conf.Exchange(ctx, code)
			if err != nil {
				return service.ExternalIdentity{}, fmt.Errorf("exchange code: %w", err)
			}
			resp, err := conf.Client(ctx, token).Get(userInfoURL)
			if err != nil {
				return service.ExternalIdentity{}, fmt.Errorf("fetch user info: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return service.ExternalIdentity{}, fmt.Errorf("fetch user info: unexpected status %d", resp.StatusCode)
			}
			body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return service.ExternalIdentity{}, fmt.Errorf("read user info: %w", err)
			}
			identity, err := decode(body)
			if err != nil {
				return service.ExternalIdentity{}, err
			}
			identity.Provider = name
			return identity, nil
		},
	}
}

func decodeGoogleUser(body []byte) (service.ExternalIdentity, error) {
	var payload struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return service.ExternalIdentity{}, fmt.Errorf("decode google user: %w", err)
	}
	return service.ExternalIdentity{
		ProviderID: payload.Sub,
		Email:      payload.Email,
		GivenName:  payload.GivenName,
		FamilyName: payload.FamilyName,
	}, nil
}

func decodeFacebookUser(body []byte) (service.ExternalIdentity, error) {
	var payload struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return service.ExternalIdentity{}, fmt.Errorf("decode facebook user: %w", err)
	}
	return service.ExternalIdentity{
		ProviderID: payload.ID,
		Email:      payload.Email,
		GivenName:  payload.FirstName,
		FamilyName: payload.LastName,
	}, nil
}

func (h *HTTPHandler) oauthProviderFor(c *gin.Context) (*oauthProvider, bool) {
	provider, ok := h.oauth[strings.ToLower(c.Param("provider"))]
	if !ok {
		h.respondError(c, apperr.BadRequest(apperr.MsgUnsupportedOAuth))
		return nil, false
	}
	return provider, true
}

// OAuthStart 跳转到第三方登录授权页
func (h *HTTPHandler) OAuthStart(c *gin.Context) {
	provider, ok := h.oauthProviderFor(c)
	if !ok {
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/api/v1/auth/"+provider.name, "", false, true)
	c.Redirect(http.StatusFound, provider.config.AuthCodeURL(state))
}

// OAuthCallback 完成第三方登录并携带令牌跳转回前端
func (h *HTTPHandler) OAuthCallback(c *gin.Context) {
	provider, ok := h.oauthProviderFor(c)
	if !ok {
		return
	}
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		h.respondError(c, apperr.BadRequest(apperr.MsgOAuthFailed))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/api/v1/auth/"+provider.name, "", false, true)

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		h.respondError(c, apperr.BadRequest(apperr.MsgOAuthFailed))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	identity, err := provider.identify(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("provider", provider.name).Warn("oauth handshake failed")
		h.respondError(c, apperr.Wrap(apperr.KindUnauthorized, err, apperr.MsgOAuthFailed))
		return
	}
	result, err := h.auth.OAuthLogin(ctx, identity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, result.RedirectURL)
}
