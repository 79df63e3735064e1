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
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	publisher   service.EventPublisher
	metrics     service.MetricsRecorder
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	StoreRepo   repository.StoreRepository
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository
	Publisher   service.EventPublisher
	Metrics     service.MetricsRecorder
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		storeRepo:   params.StoreRepo,
		productRepo: params.ProductRepo,
		orderRepo:   params.OrderRepo,
		publisher:   params.Publisher,
		metrics:     params.Metrics,
		logger:      params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder snapshots product names and prices into a new pending order.
func (srv *orderService) PlaceOrder(ctx context.Context, slug string, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if input == nil || len(input.Items) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("order needs at least one item")
	}
	if input.UserID == nil && input.SessionKey == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("order needs a buyer")
	}

	store, err := srv.storeRepo.FindStoreBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreNotFound(err, "storefront "+slug)
	}
	if !store.Visible() {
		return nil, domainerrors.ErrStoreNotFound.WrapMessage("storefront " + slug + " is not public")
	}

	quantities := make(map[uint]int, len(input.Items))
	ids := make([]uint, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("quantity must be at least 1")
		}
		if _, seen := quantities[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		quantities[line.ProductID] += line.Quantity
	}

	products, err := srv.productRepo.FindProductsByIDs(ctx, store.ID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ordered products")
	}
	byID := make(map[uint]*entity.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	order := &entity.Order{
		StoreID:    store.ID,
		UserID:     input.UserID,
		Status:     entity.OrderStatusPending,
		Note:       strings.TrimSpace(input.Note),
		SessionKey: input.SessionKey,
	}
	if input.UserID != nil {
		order.SessionKey = ""
	}
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, domainerrors.ErrProductNotFound.WrapMessage(fmt.Sprintf("product %d is not sold here", id))
		}
		order.Items = append(order.Items, entity.NewOrderItem(product, quantities[id]))
	}
	order.Recalculate()

	if err := srv.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	logger := srv.log(ctx)
	logger.Info("Order placed",
		slog.Uint64("storeID", uint64(store.ID)),
		slog.Uint64("orderID", uint64(order.ID)),
		slog.String("total", order.Total.StringFixed(2)))
	srv.metrics.OrderPlaced(store.ID)
	publish(ctx, logger, srv.publisher, service.NewEvent(service.EventOrderPlaced, store.ID, map[string]any{
		"order_id": order.ID,
		"total":    order.Total.StringFixed(2),
		"items":    order.ItemCount(),
	}))

	return order, nil
}

// ListOrders returns the store's orders, newest first.
func (srv *orderService) ListOrders(ctx context.Context, store *entity.Store) ([]*entity.Order, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}

	orders, err := srv.orderRepo.FindRecentOrders(ctx, store.ID, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

func (srv *orderService) GetOrder(ctx context.Context, store *entity.Store, orderID uint) (*entity.Order, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}

	return findOrder(ctx, srv.orderRepo, store.ID, orderID)
}

func findOrder(ctx context.Context, orderRepo repository.OrderRepository, storeID, orderID uint) (*entity.Order, error) {
	order, err := orderRepo.FindOrder(ctx, storeID, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, domainerrors.ErrOrderNotFound.WrapMessage(fmt.Sprintf("order %d", orderID))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

func (srv *orderService) UpdateOrderStatus(ctx context.Context, store *entity.Store, orderID uint, status entity.OrderStatus) (*entity.Order, error) {
	if err := requireActiveStore(store); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, domainerrors.ErrInvalidOrderStatus.WrapMessage(string(status))
	}

	if err := srv.orderRepo.UpdateOrderStatus(ctx, store.ID, orderID, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound.WrapMessage(fmt.Sprintf("order %d", orderID))
		}

		return nil, errors.Wrap(err, "failed to update order status")
	}

	srv.log(ctx).Info("Order status updated", slog.Uint64("orderID", uint64(orderID)), slog.String("status", string(status)))

	return findOrder(ctx, srv.orderRepo, store.ID, orderID)
}
