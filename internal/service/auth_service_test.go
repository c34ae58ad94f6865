package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"barefoot/internal/apperr"
	"barefoot/internal/auth"
	"barefoot/internal/entity"
	"barefoot/internal/model/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func registerInput(email string) RegisterInput {
	return RegisterInput{
		FirstName: " Jane ",
		LastName:  "DOE",
		Email:     email,
		Password:  "password123",
		Lang:      language.English,
	}
}

func TestRegisterIssuesTokenAndSendsVerification(t *testing.T) {
	repo := memory.NewRepository()
	mailer := &recordingMailer{}
	svc := newAuthService(t, repo, mailer)

	result, err := svc.Register(context.Background(), registerInput("jane@example.com"))
	require.NoError(t, err)
	assert.True(t, result.EmailSent)
	assert.Equal(t, "jane", result.User.FirstName)
	assert.Equal(t, "doe", result.User.LastName)
	assert.Equal(t, entity.RoleRequester, result.User.Role)
	assert.False(t, result.User.IsVerified)

	claims, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, entity.RoleRequester, claims.Role)
	assert.False(t, claims.IsVerified)

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].To)
	assert.Equal(t, "Verify your Barefoot Nomad account", sent[0].Content.Subject)
	assert.True(t, strings.HasPrefix(sent[0].Link, "http://api.test/api/v1/auth/verification?token="))
	assert.Contains(t, sent[0].Link, "email=jane%40example.com")
}

func TestRegisterLocalisesVerificationEmail(t *testing.T) {
	repo := memory.NewRepository()
	mailer := &recordingMailer{}
	svc := newAuthService(t, repo, mailer)

	in := registerInput("marie@example.com")
	in.Lang = language.French
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.NotEqual(t, "Verify your Barefoot Nomad account", sent[0].Content.Subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{})

	_, err := svc.Register(context.Background(), registerInput("jane@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput("jane@example.com"))
	requireKind(t, err, apperr.KindConflict, apperr.MsgEmailExists)
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{})

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), registerInput("race@example.com"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, apperr.KindConflict, apperr.MsgEmailExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRegisterSucceedsWhenMailFails(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{err: errMailDown})

	result, err := svc.Register(context.Background(), registerInput("jane@example.com"))
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
	assert.NotEmpty(t, result.Token)

	stored, err := repo.GetUserByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, stored.ID)
}

func TestRegisterRejectsEmptyPassword(t *testing.T) {
	svc := newAuthService(t, memory.NewRepository(), &recordingMailer{})

	in := registerInput("jane@example.com")
	in.Password = "   "
	_, err := svc.Register(context.Background(), in)
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgInvalidPayload)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{})
	createUser(t, repo, "known@example.com", entity.RoleRequester)

	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "password123")
	_, wrongErr := svc.Login(context.Background(), "known@example.com", "wrong-password")

	requireKind(t, unknownErr, apperr.KindUnauthorized, apperr.MsgBadCredentials)
	requireKind(t, wrongErr, apperr.KindUnauthorized, apperr.MsgBadCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginTokenReflectsAccount(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{})
	user := createUser(t, repo, "manager@example.com", entity.RoleManager)

	result, err := svc.Login(context.Background(), "manager@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, entity.RoleManager, claims.Role)
	assert.True(t, claims.IsVerified)
}

func TestOAuthLoginCreatesThenReuses(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{})
	identity := ExternalIdentity{
		Provider:   "Google",
		ProviderID: "12345",
		Email:      "traveller@gmail.com",
		GivenName:  "Tom",
		FamilyName: "Traveller",
	}

	first, err := svc.OAuthLogin(context.Background(), identity)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, first.User.IsVerified)
	assert.Equal(t, "google", first.User.SignupMethod)
	assert.True(t, strings.HasPrefix(first.RedirectURL, "http://app.test?token="))

	second, err := svc.OAuthLogin(context.Background(), identity)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.User.ID, second.User.ID)

	claims, err := svc.VerifyToken(second.Token)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, claims.UserID)

	_, err = svc.Login(context.Background(), "traveller@gmail.com", auth.SentinelPassword)
	requireKind(t, err, apperr.KindUnauthorized, apperr.MsgBadCredentials)
}

func TestOAuthLoginConflictsWithLocalAccount(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{})
	createUser(t, repo, "taken@example.com", entity.RoleRequester)

	_, err := svc.OAuthLogin(context.Background(), ExternalIdentity{
		Provider:   "facebook",
		ProviderID: "fb-1",
		Email:      "taken@example.com",
	})
	requireKind(t, err, apperr.KindConflict, apperr.MsgEmailExists)
}

func TestOAuthLoginRequiresIdentity(t *testing.T) {
	svc := newAuthService(t, memory.NewRepository(), &recordingMailer{})

	_, err := svc.OAuthLogin(context.Background(), ExternalIdentity{Provider: "google"})
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgOAuthFailed)
}

func TestVerifyEmail(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{})
	registered, err := svc.Register(context.Background(), registerInput("jane@example.com"))
	require.NoError(t, err)
	claims, err := svc.VerifyToken(registered.Token)
	require.NoError(t, err)

	_, err = svc.VerifyEmail(context.Background(), claims, "other@example.com")
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgVerificationFailed)

	result, err := svc.VerifyEmail(context.Background(), claims, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, result.User.IsVerified)

	fresh, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.True(t, fresh.IsVerified)

	stored, err := repo.GetUserByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
}

func TestForgotAndResetPassword(t *testing.T) {
	repo := memory.NewRepository()
	mailer := &recordingMailer{}
	svc := newAuthService(t, repo, mailer)
	user := createUser(t, repo, "jane@example.com", entity.RoleRequester)

	err := svc.ForgotPassword(context.Background(), "ghost@example.com", language.English)
	requireKind(t, err, apperr.KindNotFound, apperr.MsgUserNotFoundReset)

	require.NoError(t, svc.ForgotPassword(context.Background(), "jane@example.com", language.English))
	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0].Link, "http://app.test/password/reset?token="))

	require.NoError(t, svc.ResetPassword(context.Background(), user.ID, "brand-new-pass"))
	_, err = svc.Login(context.Background(), "jane@example.com", "password123")
	requireKind(t, err, apperr.KindUnauthorized, apperr.MsgBadCredentials)
	_, err = svc.Login(context.Background(), "jane@example.com", "brand-new-pass")
	assert.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "missing-id", "brand-new-pass")
	requireKind(t, err, apperr.KindNotFound, apperr.MsgUserNotFoundReset)
}

func TestForgotPasswordMailFailure(t *testing.T) {
	repo := memory.NewRepository()
	svc := newAuthService(t, repo, &recordingMailer{err: errMailDown})
	createUser(t, repo, "jane@example.com", entity.RoleRequester)

	err := svc.ForgotPassword(context.Background(), "jane@example.com", language.English)
	requireKind(t, err, apperr.KindInternal, apperr.MsgServerError)
}

func TestVerifyTokenClassification(t *testing.T) {
	svc := newAuthService(t, memory.NewRepository(), &recordingMailer{})

	_, err := svc.VerifyToken("  ")
	requireKind(t, err, apperr.KindMissingToken, apperr.MsgNoToken)

	_, err = svc.VerifyToken("not-a-jwt")
	requireKind(t, err, apperr.KindInvalidToken, apperr.MsgInvalidToken)
}
