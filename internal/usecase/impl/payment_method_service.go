package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"go.uber.org/fx"
)

// paymentMethodService implements the PaymentMethodUsecase interface.
type paymentMethodService struct {
	txManager         repository.TransactionManager
	paymentMethodRepo repository.PaymentMethodRepository
	logger            *slog.Logger
}

// PaymentMethodServiceParams holds dependencies for PaymentMethodService, injected by Fx.
type PaymentMethodServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	PaymentMethodRepo repository.PaymentMethodRepository
	Logger            *slog.Logger
}

// NewPaymentMethodService is the constructor for paymentMethodService.
func NewPaymentMethodService(params PaymentMethodServiceParams) usecase.PaymentMethodUsecase {
	return &paymentMethodService{
		txManager:         params.TxManager,
		paymentMethodRepo: params.PaymentMethodRepo,
		logger:            params.Logger,
	}
}

func (srv *paymentMethodService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListPaymentMethods orders defaults first, then by provider and recency.
func (srv *paymentMethodService) ListPaymentMethods(ctx context.Context, store *entity.Store) ([]*entity.PaymentMethod, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}

	methods, err := srv.paymentMethodRepo.FindPaymentMethodsByStore(ctx, store.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payment methods")
	}

	return methods, nil
}

func validatePaymentMethodInput(input *usecase.PaymentMethodInput) error {
	if input == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("payment method is required")
	}
	if !input.Provider.IsValid() {
		return domainerrors.ErrUnknownPaymentProvider.WrapMessage(string(input.Provider))
	}
	if !input.Mode.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("mode must be test or live")
	}

	return nil
}

func applyPaymentMethodInput(method *entity.PaymentMethod, input *usecase.PaymentMethodInput) {
	method.Provider = input.Provider
	method.DisplayName = strings.TrimSpace(input.DisplayName)
	method.Mode = input.Mode
	method.IsActive = input.IsActive
	method.IsDefault = input.IsDefault
	method.Credentials = input.Credentials
	if method.Credentials == nil {
		method.Credentials = map[string]any{}
	}
}

// CreatePaymentMethod saves a method. A new default demotes every sibling in the
// same transaction, with the store row locked first.
func (srv *paymentMethodService) CreatePaymentMethod(ctx context.Context, store *entity.Store, input *usecase.PaymentMethodInput) (*entity.PaymentMethod, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}
	if err := validatePaymentMethodInput(input); err != nil {
		return nil, err
	}

	method := &entity.PaymentMethod{StoreID: store.ID}
	applyPaymentMethodInput(method, input)

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.NewStoreRepository().LockStore(ctx, store.ID); err != nil {
			return mapStoreNotFound(err, "failed to lock store")
		}

		methodRepo := repos.NewPaymentMethodRepository()
		if err := methodRepo.CreatePaymentMethod(ctx, method); err != nil {
			return errors.Wrap(err, "failed to create payment method")
		}

		return clearOtherDefaults(ctx, methodRepo, method)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save payment method")
	}

	srv.log(ctx).Info("Payment method saved",
		slog.Uint64("storeID", uint64(store.ID)),
		slog.Uint64("methodID", uint64(method.ID)),
		slog.String("provider", string(method.Provider)),
		slog.Bool("isDefault", method.IsDefault))

	return method, nil
}

func (srv *paymentMethodService) UpdatePaymentMethod(ctx context.Context, store *entity.Store, methodID uint, input *usecase.PaymentMethodInput) (*entity.PaymentMethod, error) {
	if store == nil {
		return nil, domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}
	if err := validatePaymentMethodInput(input); err != nil {
		return nil, err
	}

	var method *entity.PaymentMethod
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.NewStoreRepository().LockStore(ctx, store.ID); err != nil {
			return mapStoreNotFound(err, "failed to lock store")
		}

		methodRepo := repos.NewPaymentMethodRepository()
		found, err := methodRepo.FindPaymentMethod(ctx, store.ID, methodID)
		if err != nil {
			return mapPaymentMethodNotFound(err, methodID)
		}
		applyPaymentMethodInput(found, input)

		if err := methodRepo.UpdatePaymentMethod(ctx, found); err != nil {
			return mapPaymentMethodNotFound(err, methodID)
		}
		method = found

		return clearOtherDefaults(ctx, methodRepo, method)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update payment method")
	}

	srv.log(ctx).Info("Payment method updated", slog.Uint64("methodID", uint64(methodID)), slog.Bool("isDefault", method.IsDefault))

	return method, nil
}

func clearOtherDefaults(ctx context.Context, methodRepo repository.PaymentMethodRepository, method *entity.PaymentMethod) error {
	if !method.IsDefault {
		return nil
	}
	if err := methodRepo.ClearDefaultExcept(ctx, method.StoreID, method.ID); err != nil {
		return errors.Wrap(err, "failed to demote other default methods")
	}

	return nil
}

func mapPaymentMethodNotFound(err error, methodID uint) error {
	if errors.Is(err, repository.ErrPaymentMethodNotFound) {
		return domainerrors.ErrPaymentMethodNotFound.WrapMessage(fmt.Sprintf("payment method %d", methodID))
	}

	return errors.Wrap(err, "payment method lookup failed")
}

func (srv *paymentMethodService) DeletePaymentMethod(ctx context.Context, store *entity.Store, methodID uint) error {
	if store == nil {
		return domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}

	if err := srv.paymentMethodRepo.DeletePaymentMethod(ctx, store.ID, methodID); err != nil {
		return mapPaymentMethodNotFound(err, methodID)
	}

	srv.log(ctx).Info("Payment method deleted", slog.Uint64("storeID", uint64(store.ID)), slog.Uint64("methodID", uint64(methodID)))

	return nil
}

func (srv *paymentMethodService) ListAllPaymentMethods(ctx context.Context) ([]*repository.PaymentMethodWithStore, error) {
	methods, err := srv.paymentMethodRepo.ListAllPaymentMethods(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list all payment methods")
	}

	return methods, nil
}
