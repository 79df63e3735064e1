package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	publisher    service.EventPublisher
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		publisher:    params.Publisher,
		logger:       params.Logger,
	}
}

func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers the account and provisions the tenant in the same transaction,
// so a user never exists without a profile and a store.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.AuthOutput, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("username, email and password are required")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	var tenant *tenantProvision
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.NewUserRepository().CreateUser(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		provisioned, err := provisionTenant(ctx, repos, user, signupStoreBlurb, false)
		if err != nil {
			return err
		}
		tenant = provisioned

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to sign up")
	}

	srv.log(ctx).Info("Tenant provisioned",
		slog.Uint64("userID", uint64(user.ID)),
		slog.Uint64("storeID", uint64(tenant.Store.ID)),
		slog.String("profileSlug", tenant.Profile.Slug))
	publish(ctx, srv.log(ctx), srv.publisher, service.NewEvent(service.EventTenantProvision, tenant.Store.ID, map[string]any{
		"user_id":      user.ID,
		"profile_slug": tenant.Profile.Slug,
		"store_slug":   tenant.Store.Slug,
	}))

	return srv.issue(user, tenant.Store)
}

// Login authenticates by username or email.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	login := strings.TrimSpace(input.Login)

	user, err := srv.userRepo.FindUserByLogin(ctx, login)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown account")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected", slog.Uint64("userID", uint64(user.ID)))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
	}
	srv.upgradeHash(ctx, user, input.Password)

	return srv.issue(user, nil)
}

// upgradeHash re-hashes the password when the configured cost changed. A
// failure only costs the upgrade; the login still succeeds.
func (srv *authService) upgradeHash(ctx context.Context, user *entity.User, password string) {
	if !srv.hasher.NeedsRehash(user.PasswordHash) {
		return
	}

	hash, err := srv.hasher.Hash(password)
	if err == nil {
		err = srv.userRepo.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		srv.log(ctx).Warn("Failed to upgrade password hash", slog.Uint64("userID", uint64(user.ID)), slog.Any("error", err))

		return
	}
	user.PasswordHash = hash
}

func (srv *authService) issue(user *entity.User, store *entity.Store) (*usecase.AuthOutput, error) {
	token, err := srv.tokenService.GenerateAccessToken(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.AuthOutput{
		User:        user,
		Store:       store,
		AccessToken: token,
		ExpiresIn:   srv.tokenService.AccessTokenDuration(),
	}, nil
}
