package impl

import (
	"context"
	"testing"
	"time"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func createTestPaymentMethodService(t *testing.T) (*testRepos, usecase.PaymentMethodUsecase) {
	t.Helper()

	repos := newTestRepos(t)
	srv := NewPaymentMethodService(PaymentMethodServiceParams{
		TxManager:         repos.txManager,
		PaymentMethodRepo: repos.methods,
		Logger:            newDiscardLogger(),
	})

	return repos, srv
}

func countDefaults(methods []*entity.PaymentMethod) int {
	n := 0
	for _, m := range methods {
		if m.IsDefault {
			n++
		}
	}

	return n
}

func TestPaymentMethodService_SingleDefault(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestPaymentMethodService(t)
	owner := repos.seedUser(t, "owner")
	store := repos.seedStore(t, owner.ID, "shop", time.Now())
	other := repos.seedStore(t, owner.ID, "other", time.Now())
	otherDefault := repos.seedPaymentMethod(t, other.ID, entity.ProviderCard, true, true)

	stripe, err := srv.CreatePaymentMethod(ctx, store, &usecase.PaymentMethodInput{
		Provider: entity.ProviderStripe, Mode: entity.ModeTest, IsActive: true, IsDefault: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, stripe.Credentials)

	paypal, err := srv.CreatePaymentMethod(ctx, store, &usecase.PaymentMethodInput{
		Provider: entity.ProviderPayPal, Mode: entity.ModeLive, IsActive: true, IsDefault: true,
	})
	require.NoError(t, err)

	methods, err := srv.ListPaymentMethods(ctx, store)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, 1, countDefaults(methods))
	assert.Equal(t, paypal.ID, methods[0].ID)

	_, err = srv.UpdatePaymentMethod(ctx, store, stripe.ID, &usecase.PaymentMethodInput{
		Provider: entity.ProviderStripe, Mode: entity.ModeTest, IsActive: true, IsDefault: true, DisplayName: " Stripe ",
	})
	require.NoError(t, err)

	methods, err = srv.ListPaymentMethods(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, countDefaults(methods))
	assert.Equal(t, stripe.ID, methods[0].ID)
	assert.Equal(t, "Stripe", methods[0].DisplayName)

	untouched, err := repos.methods.FindPaymentMethod(ctx, other.ID, otherDefault.ID)
	require.NoError(t, err)
	assert.True(t, untouched.IsDefault)
}

func TestPaymentMethodService_SingleDefaultUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestPaymentMethodService(t)
	owner := repos.seedUser(t, "owner")
	store := repos.seedStore(t, owner.ID, "shop", time.Now())

	existing := make([]*entity.PaymentMethod, 0, 4)
	for range 4 {
		existing = append(existing, repos.seedPaymentMethod(t, store.ID, entity.ProviderCard, true, false))
	}

	var g errgroup.Group
	for i := range 20 {
		g.Go(func() error {
			input := &usecase.PaymentMethodInput{
				Provider: entity.ProviderStripe, Mode: entity.ModeTest, IsActive: true, IsDefault: true,
			}
			if i%2 == 0 {
				_, err := srv.CreatePaymentMethod(ctx, store, input)

				return err
			}
			input.Provider = entity.ProviderCard
			_, err := srv.UpdatePaymentMethod(ctx, store, existing[i%len(existing)].ID, input)

			return err
		})
	}
	require.NoError(t, g.Wait())

	methods, err := srv.ListPaymentMethods(ctx, store)
	require.NoError(t, err)
	assert.Len(t, methods, 14)
	assert.Equal(t, 1, countDefaults(methods))
	assert.True(t, methods[0].IsDefault)
}

func TestPaymentMethodService_Validation(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestPaymentMethodService(t)
	owner := repos.seedUser(t, "owner")
	store := repos.seedStore(t, owner.ID, "shop", time.Now())

	_, err := srv.CreatePaymentMethod(ctx, store, &usecase.PaymentMethodInput{Provider: "bitcoin", Mode: entity.ModeTest})
	assert.True(t, errors.Is(err, domainerrors.ErrUnknownPaymentProvider))

	_, err = srv.CreatePaymentMethod(ctx, store, &usecase.PaymentMethodInput{Provider: entity.ProviderCard, Mode: "prod"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = srv.CreatePaymentMethod(ctx, nil, &usecase.PaymentMethodInput{Provider: entity.ProviderCard, Mode: entity.ModeTest})
	assert.True(t, errors.Is(err, domainerrors.ErrStoreRequired))
}

func TestPaymentMethodService_ScopedToStore(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestPaymentMethodService(t)
	owner := repos.seedUser(t, "owner")
	store := repos.seedStore(t, owner.ID, "shop", time.Now())
	other := repos.seedStore(t, owner.ID, "other", time.Now())
	foreign := repos.seedPaymentMethod(t, other.ID, entity.ProviderCard, true, false)

	_, err := srv.UpdatePaymentMethod(ctx, store, foreign.ID, &usecase.PaymentMethodInput{Provider: entity.ProviderCard, Mode: entity.ModeTest})
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentMethodNotFound))

	err = srv.DeletePaymentMethod(ctx, store, foreign.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentMethodNotFound))

	require.NoError(t, srv.DeletePaymentMethod(ctx, other, foreign.ID))
}

func TestPaymentMethodService_ListAllPaymentMethods(t *testing.T) {
	ctx := context.Background()
	repos, srv := createTestPaymentMethodService(t)
	owner := repos.seedUser(t, "owner")
	beta := repos.seedStore(t, owner.ID, "beta", time.Now())
	alpha := repos.seedStore(t, owner.ID, "alpha", time.Now())
	repos.seedPaymentMethod(t, beta.ID, entity.ProviderStripe, true, false)
	repos.seedPaymentMethod(t, alpha.ID, entity.ProviderStripe, true, false)
	alphaDefault := repos.seedPaymentMethod(t, alpha.ID, entity.ProviderPayPal, true, true)

	rows, err := srv.ListAllPaymentMethods(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Store alpha", rows[0].StoreName)
	assert.Equal(t, alphaDefault.ID, rows[0].Method.ID)
	assert.Equal(t, "Store beta", rows[2].StoreName)
}
