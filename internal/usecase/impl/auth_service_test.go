package impl

import (
	"context"
	"testing"
	"time"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/infra/auth"
	servicemocks "majicmall/internal/mocks/service"
	"majicmall/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authServiceFixture struct {
	repos     *testRepos
	publisher *servicemocks.MockEventPublisher
	tokens    service.TokenService
	service   usecase.AuthUsecase
}

func createTestAuthService(t *testing.T) *authServiceFixture {
	t.Helper()

	repos := newTestRepos(t)
	cfg := newTestConfig()
	publisher := servicemocks.NewMockEventPublisher(t)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return &authServiceFixture{
		repos:     repos,
		publisher: publisher,
		tokens:    tokens,
		service: NewAuthService(AuthServiceParams{
			TxManager:    repos.txManager,
			UserRepo:     repos.users,
			Hasher:       auth.NewBcryptHasher(cfg),
			TokenService: tokens,
			Publisher:    publisher,
			Logger:       newDiscardLogger(),
		}),
	}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	f := createTestAuthService(t)

	f.publisher.EXPECT().Publish(mock.Anything, eventOfType(service.EventTenantProvision)).Return(nil).Twice()

	out, err := f.service.Signup(ctx, &usecase.SignupInput{Username: "alice", Email: " Alice@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.User.Email)
	assert.NotEqual(t, "s3cret-pass", out.User.PasswordHash)
	assert.Equal(t, time.Hour, out.ExpiresIn)

	claims, err := f.tokens.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, []string{"merchant"}, claims.Roles)

	require.NotNil(t, out.Store)
	assert.Equal(t, "alice's Store", out.Store.Name)
	assert.Equal(t, "alices-store", out.Store.Slug)
	assert.Equal(t, "Welcome to my store!", out.Store.Slogan)
	assert.Equal(t, "General", out.Store.Category)
	assert.Equal(t, "This is your first store inside Majic Mall.", out.Store.Description)
	assert.Equal(t, entity.PlanStarter, out.Store.Plan)
	assert.False(t, out.Store.IsPublic)

	profile, err := f.repos.profiles.FindProfileByUserID(ctx, out.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Slug)
	assert.Equal(t, "alice", profile.DisplayName)
	assert.Equal(t, entity.PlanStarter, profile.Plan)

	// A second "Alice" collides on both slugs.
	second, err := f.service.Signup(ctx, &usecase.SignupInput{Username: "Alice", Email: "alice2@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "alices-store-2", second.Store.Slug)

	secondProfile, err := f.repos.profiles.FindProfileByUserID(ctx, second.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice-2", secondProfile.Slug)
}

func TestAuthService_Signup_DuplicateRollsBack(t *testing.T) {
	ctx := context.Background()
	f := createTestAuthService(t)
	existing := f.repos.seedUser(t, "bob")

	_, err := f.service.Signup(ctx, &usecase.SignupInput{Username: "bob", Email: "new@example.com", Password: "pw"})
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))

	stores, err := f.repos.stores.FindStoresByOwner(ctx, existing.ID, true)
	require.NoError(t, err)
	assert.Empty(t, stores)

	_, err = f.service.Signup(ctx, &usecase.SignupInput{Username: " ", Email: "x@example.com", Password: "pw"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := createTestAuthService(t)

	f.publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	signup, err := f.service.Signup(ctx, &usecase.SignupInput{Username: "carol", Email: "carol@example.com", Password: "right-pass"})
	require.NoError(t, err, "publish failures must not fail signup")

	byName, err := f.service.Login(ctx, &usecase.LoginInput{Login: "carol", Password: "right-pass"})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, byName.User.ID)
	assert.NotEmpty(t, byName.AccessToken)

	byEmail, err := f.service.Login(ctx, &usecase.LoginInput{Login: "carol@example.com", Password: "right-pass"})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, byEmail.User.ID)

	_, err = f.service.Login(ctx, &usecase.LoginInput{Login: "carol", Password: "wrong"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = f.service.Login(ctx, &usecase.LoginInput{Login: "nobody", Password: "right-pass"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_LoginUpgradesStaleHash(t *testing.T) {
	ctx := context.Background()
	f := createTestAuthService(t)

	stale, err := auth.NewBcryptHasherWithCost(5).Hash("s3cret-pass")
	require.NoError(t, err)
	user := &entity.User{Username: "olga", Email: "olga@example.com", PasswordHash: stale}
	require.NoError(t, f.repos.users.CreateUser(ctx, user))

	out, err := f.service.Login(ctx, &usecase.LoginInput{Login: "olga", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEqual(t, stale, out.User.PasswordHash)

	stored, err := f.repos.users.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, out.User.PasswordHash, stored.PasswordHash)

	_, err = f.service.Login(ctx, &usecase.LoginInput{Login: "olga@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
}
