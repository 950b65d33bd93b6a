package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shopcentral/internal/config"
	"shopcentral/internal/dto"
	"shopcentral/internal/model"
	"shopcentral/internal/repository"
	"shopcentral/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if includeInactive || u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.Active = false
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

func seedUser(repo *stubUserRepo, username, password, role string) *model.User {
	// MinCost keeps the test fast; the service itself hashes at cost 12.
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         "Test Staff",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	repo.mu.Lock()
	repo.users[u.ID] = u
	repo.mu.Unlock()
	return u
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "cashier1", "hunter2-secret", model.RoleCashier)
	svc := service.NewAuthService(repo, authTestConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "hunter2-secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "cashier1", resp.User.Username)
	assert.Equal(t, model.RoleCashier, resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "cashier1", "correct-password", model.RoleCashier)
	svc := service.NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "wrong"})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := service.NewAuthService(newStubUserRepo(), authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLogin_DeactivatedUserRejected(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(repo, "former", "old-password-1", model.RoleCashier)
	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))
	svc := service.NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "former", Password: "old-password-1"})
	assert.Error(t, err)
}

func TestRefresh_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "admin1", "admin-password", model.RoleAdmin)
	svc := service.NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin1", Password: "admin-password"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "admin1", refreshed.User.Username)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc := service.NewAuthService(newStubUserRepo(), authTestConfig())

	_, err := svc.Refresh(context.Background(), "not.a.jwt")
	assert.ErrorContains(t, err, "invalid or expired")
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(repo, "leaver", "leaver-password", model.RoleCashier)
	svc := service.NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "leaver", Password: "leaver-password"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "newcashier",
		Name:     "New Cashier",
		Password: "plain-text-pw",
		Role:     model.RoleCashier,
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	stored, err := repo.FindByUsername(context.Background(), "newcashier")
	require.NoError(t, err)
	assert.NotEqual(t, "plain-text-pw", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("plain-text-pw")))
}

func TestUpdateUser_ChangesPasswordAndRole(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(repo, "promotee", "initial-pw-123", model.RoleCashier)
	svc := service.NewAuthService(repo, authTestConfig())

	resp, err := svc.UpdateUser(context.Background(), u.ID, dto.UpdateUserRequest{
		Password: "rotated-pw-456",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.Role)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "promotee", Password: "initial-pw-123"})
	assert.Error(t, err)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "promotee", Password: "rotated-pw-456"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, login.User.Role)
}

func TestListUsers_ExcludesInactiveByDefault(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "active1", "password-one", model.RoleCashier)
	gone := seedUser(repo, "inactive1", "password-two", model.RoleCashier)
	require.NoError(t, repo.SoftDelete(context.Background(), gone.ID))
	svc := service.NewAuthService(repo, authTestConfig())

	active, err := svc.ListUsers(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListUsers(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
