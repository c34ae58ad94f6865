package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"barefoot/internal/apperr"
	"barefoot/internal/auth"
	"barefoot/internal/entity"
	"barefoot/internal/mail"
	"barefoot/internal/model/memory"
	"barefoot/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg mail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (s *memoryStorage) Save(_ context.Context, data []byte, opts storage.SaveOptions) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	key := opts.Category + "/" + opts.BaseName + "." + opts.Extension
	s.objects[key] = data
	return key, nil
}

var errMailDown = errors.New("smtp unavailable")

func newTokenManager(t *testing.T) *auth.Manager {
	t.Helper()
	manager, err := auth.NewManager("test-secret", "barefoot-test", time.Hour)
	require.NoError(t, err)
	return manager
}

func newHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

func newAuthService(t *testing.T, repo *memory.Repository, mailer mail.Dispatcher) *AuthService {
	t.Helper()
	return NewAuthService(repo, newTokenManager(t), newHasher(), mailer, AuthOptions{
		APIBaseURL:  "http://api.test/",
		FrontendURL: "http://app.test",
		MailTimeout: time.Second,
	})
}

func createUser(t *testing.T, repo *memory.Repository, email, role string) *entity.DbUser {
	t.Helper()
	hash, err := newHasher().Hash("password123")
	require.NoError(t, err)
	user := &entity.DbUser{
		FirstName:    "test",
		LastName:     role,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   true,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func requireKind(t *testing.T, err error, kind apperr.Kind, key string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected classified error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	if key != "" {
		assert.Equal(t, key, appErr.Key)
	}
}

func ptr[T any](v T) *T {
	return &v
}
