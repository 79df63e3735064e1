package postgres

import (
	"context"
	"time"

	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderRepository implements the domain.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// CreateOrder persists the order and its items in one statement batch.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("order references an unknown store or product")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i := range orderM.Items {
		if i < len(order.Items) {
			order.Items[i].ID = orderM.Items[i].ID
			order.Items[i].OrderID = orderM.ID
		}
	}

	return nil
}

// FindOrder returns one order of the store with items and customer.
func (repo *orderRepository) FindOrder(ctx context.Context, storeID, id uint) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.withDetails(ctx).Where("id = ? AND store_id = ?", id, storeID).First(&orderM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

// FindRecentOrders lists the newest orders of the store.
func (repo *orderRepository) FindRecentOrders(ctx context.Context, storeID uint, limit int) ([]*entity.Order, error) {
	query := repo.withDetails(ctx).Where("store_id = ?", storeID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orderModels []*model.OrderModel
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find recent orders")
	}

	return toOrderDomains(orderModels), nil
}

// FindOrdersSince lists orders created at or after since, oldest first.
func (repo *orderRepository) FindOrdersSince(ctx context.Context, storeID uint, since time.Time) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel
	err := repo.withDetails(ctx).
		Where("store_id = ? AND created_at >= ?", storeID, utc(since)).
		Order("created_at ASC, id ASC").
		Find(&orderModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders since")
	}

	return toOrderDomains(orderModels), nil
}

// UpdateOrderStatus sets the status of one order of the store.
func (repo *orderRepository) UpdateOrderStatus(ctx context.Context, storeID, id uint, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(map[string]any{"status": string(status), "updated_at": utcNow()})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// OrderStats counts orders and sums their totals.
func (repo *orderRepository) OrderStats(ctx context.Context, storeID uint) (*repository.OrderStats, error) {
	var row struct {
		Count   int64
		Revenue decimal.NullDecimal
	}
	err := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Select("COUNT(*) AS count, SUM(total) AS revenue").
		Where("store_id = ?", storeID).
		Scan(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute order stats")
	}

	stats := &repository.OrderStats{Count: row.Count, Revenue: decimal.Zero}
	if row.Revenue.Valid {
		stats.Revenue = row.Revenue.Decimal
	}

	return stats, nil
}

// soldName is the name captured on the order item, so renaming a product does not
// rewrite past rankings.
const soldName = "COALESCE(NULLIF(order_items.name, ''), products.name, 'Product')"

// TopProductsSince ranks products sold since the given time by their name at sale.
func (repo *orderRepository) TopProductsSince(
	ctx context.Context,
	storeID uint,
	since time.Time,
	limit int,
) ([]*repository.ProductSales, error) {
	var rows []struct {
		ProductID uint
		Name      string
		Quantity  int64
		Revenue   decimal.Decimal
	}

	query := repo.db.WithContext(ctx).Table("order_items").
		Select("MIN(order_items.product_id) AS product_id, "+soldName+" AS name, "+
			"SUM(order_items.quantity) AS quantity, "+
			"SUM(order_items.unit_price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("orders.store_id = ? AND orders.created_at >= ?", storeID, utc(since)).
		Group(soldName).
		Order("quantity DESC, revenue DESC, name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to rank products")
	}

	sales := make([]*repository.ProductSales, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, &repository.ProductSales{
			ProductID: row.ProductID,
			Name:      row.Name,
			Quantity:  row.Quantity,
			Revenue:   row.Revenue.Round(2),
		})
	}

	return sales, nil
}

func (repo *orderRepository) withDetails(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("User")
}

// --- Mapper Functions ---

func toOrderDomains(orderModels []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders
}

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	order := &entity.Order{
		ID:         data.ID,
		StoreID:    data.StoreID,
		UserID:     data.UserID,
		SessionKey: data.SessionKey,
		Status:     entity.OrderStatus(data.Status),
		Note:       data.Note,
		Subtotal:   data.Subtotal,
		Total:      data.Total,
		Items:      make([]*entity.OrderItem, 0, len(data.Items)),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
	if data.User != nil {
		order.CustomerEmail = data.User.Email
	}
	for i := range data.Items {
		item := &data.Items[i]
		order.Items = append(order.Items, &entity.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return order
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	orderM := &model.OrderModel{
		ID:         data.ID,
		StoreID:    data.StoreID,
		UserID:     data.UserID,
		SessionKey: data.SessionKey,
		Status:     string(data.Status),
		Note:       data.Note,
		Subtotal:   data.Subtotal,
		Total:      data.Total,
		Items:      make([]model.OrderItemModel, 0, len(data.Items)),
		CreatedAt:  utc(data.CreatedAt),
		UpdatedAt:  utc(data.UpdatedAt),
	}
	for _, item := range data.Items {
		orderM.Items = append(orderM.Items, model.OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return orderM
}
