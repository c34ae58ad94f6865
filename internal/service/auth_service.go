package service

import (
	"barefoot/internal/apperr"
	"barefoot/internal/auth"
	"barefoot/internal/entity"
	"barefoot/internal/i18n"
	"barefoot/internal/mail"
	"barefoot/internal/model"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const defaultMailTimeout = 5 * time.Second

// AuthOptions configures links embedded in emails and redirects.
type AuthOptions struct {
	APIBaseURL  string
	FrontendURL string
	MailTimeout time.Duration
}

// AuthService 认证服务，编排注册、登录、第三方登录与密码找回流程
type AuthService struct {
	repo      model.Repository
	tokens    TokenService
	passwords PasswordService
	mailer    mail.Dispatcher
	opts      AuthOptions
}

// NewAuthService 创建认证服务实例
func NewAuthService(repo model.Repository, tokens TokenService, passwords PasswordService, mailer mail.Dispatcher, opts AuthOptions) *AuthService {
	if opts.MailTimeout <= 0 {
		opts.MailTimeout = defaultMailTimeout
	}
	opts.APIBaseURL = strings.TrimRight(strings.TrimSpace(opts.APIBaseURL), "/")
	opts.FrontendURL = strings.TrimRight(strings.TrimSpace(opts.FrontendURL), "/")
	return &AuthService{
		repo:      repo,
		tokens:    tokens,
		passwords: passwords,
		mailer:    mailer,
		opts:      opts,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Lang      language.Tag
}

// AuthResult is returned by every flow that issues a token.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.DbUser
	// EmailSent is false when the account exists but its email could not be delivered.
	EmailSent bool
}

// ExternalIdentity is what an identity provider vouches for after the handshake.
type ExternalIdentity struct {
	Provider   string
	ProviderID string
	Email      string
	GivenName  string
	FamilyName string
}

// OAuthResult carries the frontend redirect for a completed external login.
type OAuthResult struct {
	AuthResult
	RedirectURL string
	Created     bool
}

func (s *AuthService) issue(user *entity.DbUser) (AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.IsVerified, user.Email, user.Role)
	if err != nil {
		return AuthResult{}, apperr.Internal(fmt.Errorf("issue token: %w", err))
	}
	return AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Register creates a requester account and sends the verification email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return AuthResult{}, apperr.BadRequest(apperr.MsgInvalidPayload)
	}
	// 唯一索引才是最终保证，这里只是提前返回
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return AuthResult{}, apperr.Conflict(apperr.MsgEmailExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResult{}, apperr.Internal(err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return AuthResult{}, apperr.Wrap(apperr.KindBadRequest, err, apperr.MsgInvalidPayload)
	}

	user := &entity.DbUser{
		FirstName:          strings.ToLower(strings.TrimSpace(in.FirstName)),
		LastName:           strings.ToLower(strings.TrimSpace(in.LastName)),
		Email:              email,
		PasswordHash:       hash,
		Role:               entity.RoleRequester,
		IsVerified:         false,
		EmailNotifications: true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return AuthResult{}, apperr.Conflict(apperr.MsgEmailExists)
		}
		return AuthResult{}, apperr.Internal(err)
	}

	result, err := s.issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	link := fmt.Sprintf("%s/api/v1/auth/verification?token=%s&email=%s",
		s.opts.APIBaseURL, url.QueryEscape(result.Token), url.QueryEscape(email))
	err = s.send(ctx, in.Lang, user, link, verificationContent)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("verification email not sent")
	}
	result.EmailSent = err == nil
	return result, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return AuthResult{}, lookupErr(err, apperr.Unauthorized(apperr.MsgBadCredentials))
	}
	if !s.passwords.Verify(password, user.PasswordHash) {
		return AuthResult{}, apperr.Unauthorized(apperr.MsgBadCredentials)
	}
	return s.issue(user)
}

// OAuthLogin signs in an externally authenticated identity, creating a
// verified account on first use.
func (s *AuthService) OAuthLogin(ctx context.Context, identity ExternalIdentity) (OAuthResult, error) {
	provider := strings.ToLower(strings.TrimSpace(identity.Provider))
	providerID := strings.TrimSpace(identity.ProviderID)
	if provider == "" || providerID == "" {
		return OAuthResult{}, apperr.BadRequest(apperr.MsgOAuthFailed)
	}
	oauthID := provider + ":" + providerID

	created := false
	user, err := s.repo.GetUserByOAuthID(ctx, oauthID)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.createExternalUser(ctx, provider, oauthID, identity)
		if err != nil {
			return OAuthResult{}, err
		}
		created = true
	default:
		return OAuthResult{}, apperr.Internal(err)
	}

	result, err := s.issue(user)
	if err != nil {
		return OAuthResult{}, err
	}
	return OAuthResult{
		AuthResult:  result,
		RedirectURL: s.opts.FrontendURL + "?token=" + url.QueryEscape(result.Token),
		Created:     created,
	}, nil
}

func (s *AuthService) createExternalUser(ctx context.Context, provider, oauthID string, identity ExternalIdentity) (*entity.DbUser, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return nil, apperr.BadRequest(apperr.MsgOAuthFailed)
	}
	user := &entity.DbUser{
		FirstName:          strings.ToLower(strings.TrimSpace(identity.GivenName)),
		LastName:           strings.ToLower(strings.TrimSpace(identity.FamilyName)),
		Email:              email,
		PasswordHash:       auth.SentinelPassword,
		Role:               entity.RoleRequester,
		IsVerified:         true,
		SignupMethod:       provider,
		OAuthID:            &oauthID,
		EmailNotifications: true,
	}
	err := s.repo.CreateUser(ctx, user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Internal(err)
	}
	// 并发回调可能已经创建了同一个外部账号
	if existing, lookup := s.repo.GetUserByOAuthID(ctx, oauthID); lookup == nil {
		return existing, nil
	}
	return nil, apperr.Conflict(apperr.MsgEmailExists)
}

// Logout is stateless: the client discards its token.
func (s *AuthService) Logout(_ context.Context, claims *auth.Claims) error {
	if claims != nil {
		logrus.WithField("user_id", claims.UserID).Debug("user logged out")
	}
	return nil
}

// VerifyEmail marks the token subject verified when email matches the account.
func (s *AuthService) VerifyEmail(ctx context.Context, claims *auth.Claims, email string) (AuthResult, error) {
	if claims == nil || strings.TrimSpace(email) != claims.Email {
		return AuthResult{}, apperr.BadRequest(apperr.MsgVerificationFailed)
	}
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return AuthResult{}, lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	if user.Email != claims.Email {
		return AuthResult{}, apperr.BadRequest(apperr.MsgVerificationFailed)
	}
	if !user.IsVerified {
		verified := true
		if err := s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{IsVerified: &verified}); err != nil {
			return AuthResult{}, lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
		}
		user.IsVerified = true
	}
	return s.issue(user)
}

// ForgotPassword emails a reset link carrying a fresh token.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, lang language.Tag) error {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return lookupErr(err, apperr.NotFound(apperr.MsgUserNotFoundReset))
	}
	result, err := s.issue(user)
	if err != nil {
		return err
	}
	link := s.opts.FrontendURL + "/password/reset?token=" + url.QueryEscape(result.Token)
	if err := s.send(ctx, lang, user, link, resetContent); err != nil {
		return apperr.Internal(fmt.Errorf("send reset email: %w", err))
	}
	return nil
}

// ResetPassword replaces the password of userID.
func (s *AuthService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindBadRequest, err, apperr.MsgInvalidPayload)
	}
	if err := s.repo.UpdateUser(ctx, userID, entity.UserUpdates{PasswordHash: &hash}); err != nil {
		return lookupErr(err, apperr.NotFound(apperr.MsgUserNotFoundReset))
	}
	return nil
}

// VerifyToken returns the claims of token, distinguishing a missing token from an invalid one.
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			return nil, apperr.Wrap(apperr.KindMissingToken, err, apperr.MsgNoToken)
		}
		return nil, apperr.Wrap(apperr.KindInvalidToken, err, apperr.MsgInvalidToken)
	}
	return claims, nil
}

type contentFunc func(lang language.Tag, name string) mail.Content

func verificationContent(lang language.Tag, name string) mail.Content {
	return mail.Content{
		Subject:  i18n.Translate(lang, "Verify your Barefoot Nomad account"),
		Greeting: i18n.Translate(lang, "Hello %s,", name),
		Body:     i18n.Translate(lang, "Thank you for joining Barefoot Nomad. Click the button below to verify your email."),
		Action:   i18n.Translate(lang, "Verify email"),
	}
}

func resetContent(lang language.Tag, name string) mail.Content {
	return mail.Content{
		Subject:  i18n.Translate(lang, "Reset your Barefoot Nomad password"),
		Greeting: i18n.Translate(lang, "Hello %s,", name),
		Body:     i18n.Translate(lang, "You requested a password reset. Click the button below to choose a new password."),
		Action:   i18n.Translate(lang, "Reset password"),
	}
}

// send runs under MailTimeout, detached from the request's own deadline.
func (s *AuthService) send(ctx context.Context, lang language.Tag, user *entity.DbUser, link string, content contentFunc) error {
	if s.mailer == nil {
		return fmt.Errorf("mail dispatcher not configured")
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.MailTimeout)
	defer cancel()
	return s.mailer.Send(sendCtx, mail.Message{
		To:      user.Email,
		Name:    user.FirstName,
		Content: content(lang, user.FirstName),
		Link:    link,
	})
}
