package authcore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testPassword = "correct-password-123"

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Token.AccessTTL = time.Minute
	cfg.Token.RefreshTTL = time.Hour
	return cfg
}

// memUserStore is an in-memory UserStore for engine tests.
type memUserStore struct {
	mu      sync.Mutex
	users   map[string]User
	byEmail map[string]string

	failNext error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:   map[string]User{},
		byEmail: map[string]string{},
	}
}

func (s *memUserStore) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *memUserStore) Create(_ context.Context, input CreateUserInput) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return User{}, err
	}
	if _, exists := s.byEmail[input.Email]; exists {
		return User{}, ErrEmailTaken
	}

	now := time.Now().UTC()
	user := User{
		ID:           input.ID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return user, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return User{}, err
	}
	id, ok := s.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return User{}, err
	}
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) RecordFailedSignIn(_ context.Context, id string, maxAttempts int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return 0, false, ErrUserNotFound
	}
	user.SignInAttempts++
	user.Locked = user.SignInAttempts >= maxAttempts
	s.users[id] = user
	return user.SignInAttempts, user.Locked, nil
}

func (s *memUserStore) ResetSignInAttempts(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.SignInAttempts = 0
	user.Locked = false
	s.users[id] = user
	return nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.SignInAttempts = 0
	user.Locked = false
	s.users[id] = user
	return nil
}

func (s *memUserStore) MarkVerified(_ context.Context, id string) (User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return User{}, false, ErrUserNotFound
	}
	already := user.Verified
	user.Verified = true
	s.users[id] = user
	return user, already, nil
}

func (s *memUserStore) get(id string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memUserStore) set(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
}

// recorderMailer captures sent mail for assertions.
type recorderMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recorderMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recorderMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestEngine(t *testing.T, rdb *redis.Client, store *memUserStore, cfg Config) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func signUpTestUser(t *testing.T, engine *Engine, store *memUserStore, email string) User {
	t.Helper()

	result, err := engine.SignUp(context.Background(), "Alice", email, testPassword)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	return store.get(result.User.ID)
}
