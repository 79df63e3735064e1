package handler

import (
	"slices"
	"time"

	"majicmall/internal/domain/entity"
	"majicmall/internal/domain/repository"
	"majicmall/internal/usecase"

	"github.com/shopspring/decimal"
)

// mediaPrefix is where uploaded blobs are served from.
const mediaPrefix = "/media/"

func mediaURL(key string) string {
	if key == "" {
		return ""
	}

	return mediaPrefix + key
}

type userView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

func newUserView(u *entity.User) *userView {
	if u == nil {
		return nil
	}

	return &userView{ID: u.ID, Username: u.Username, Email: u.Email, IsStaff: u.IsStaff}
}

type storeView struct {
	ID          uint        `json:"id"`
	OwnerID     uint        `json:"owner_id"`
	Name        string      `json:"store_name"`
	Slug        string      `json:"slug"`
	Slogan      string      `json:"slogan"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	LogoURL     string      `json:"logo_url,omitempty"`
	Plan        entity.Plan `json:"plan"`
	IsPublic    bool        `json:"is_public"`
	IsArchived  bool        `json:"is_archived"`
	ArchivedAt  *time.Time  `json:"archived_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newStoreView(s *entity.Store) *storeView {
	if s == nil {
		return nil
	}

	return &storeView{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Slug:        s.Slug,
		Slogan:      s.Slogan,
		Description: s.Description,
		Category:    s.Category,
		LogoURL:     mediaURL(s.LogoKey),
		Plan:        s.Plan,
		IsPublic:    s.IsPublic,
		IsArchived:  s.IsArchived,
		ArchivedAt:  s.ArchivedAt,
		CreatedAt:   s.CreatedAt,
	}
}

// lifecycleStoreView adds the evaluated restore deadline.
type lifecycleStoreView struct {
	*storeView
	RestoreDeadline         *time.Time `json:"restore_deadline"`
	CanRestore              bool       `json:"can_restore"`
	PurgeRemainingSeconds   int64      `json:"purge_remaining_seconds"`
	PurgeRemainingHumanized string     `json:"purge_remaining,omitempty"`
}

func newLifecycleStoreView(v *usecase.StoreView) *lifecycleStoreView {
	out := &lifecycleStoreView{
		storeView:             newStoreView(v.Store),
		RestoreDeadline:       v.RestoreDeadline,
		CanRestore:            v.CanRestore,
		PurgeRemainingSeconds: int64(v.PurgeRemaining.Seconds()),
	}
	if v.Store.IsArchived {
		out.PurgeRemainingHumanized = entity.HumanizeRemaining(v.PurgeRemaining)
	}

	return out
}

func newLifecycleStoreViews(views []*usecase.StoreView) []*lifecycleStoreView {
	out := make([]*lifecycleStoreView, 0, len(views))
	for _, v := range views {
		out = append(out, newLifecycleStoreView(v))
	}

	return out
}

type lifecycleResultView struct {
	Store           *storeView `json:"store"`
	Changed         bool       `json:"changed"`
	RestoreDeadline *time.Time `json:"restore_deadline"`
	CanRestore      bool       `json:"can_restore"`
}

func newLifecycleResultView(r *usecase.LifecycleResult) *lifecycleResultView {
	return &lifecycleResultView{
		Store:           newStoreView(r.Store),
		Changed:         r.Changed,
		RestoreDeadline: r.RestoreDeadline,
		CanRestore:      r.CanRestore,
	}
}

type productView struct {
	ID          uint            `json:"id"`
	StoreID     uint            `json:"store_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func newProductView(p *entity.Product) *productView {
	return &productView{
		ID:          p.ID,
		StoreID:     p.StoreID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    mediaURL(p.ImageKey),
		CreatedAt:   p.CreatedAt,
	}
}

func newProductViews(products []*entity.Product) []*productView {
	out := make([]*productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p))
	}

	return out
}

type orderItemView struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type orderView struct {
	ID            uint               `json:"id"`
	StoreID       uint               `json:"store_id"`
	UserID        *uint              `json:"user_id,omitempty"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Status        entity.OrderStatus `json:"status"`
	Note          string             `json:"note,omitempty"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Total         decimal.Decimal    `json:"total"`
	TotalDisplay  string             `json:"total_display"`
	ItemCount     int                `json:"item_count"`
	Items         []*orderItemView   `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

func newOrderView(o *entity.Order) *orderView {
	items := make([]*orderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, &orderItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}

	return &orderView{
		ID:            o.ID,
		StoreID:       o.StoreID,
		UserID:        o.UserID,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status,
		Note:          o.Note,
		Subtotal:      o.Subtotal,
		Total:         o.Total,
		TotalDisplay:  entity.FormatMoney(o.Total),
		ItemCount:     o.ItemCount(),
		Items:         items,
		CreatedAt:     o.CreatedAt,
	}
}

func newOrderViews(orders []*entity.Order) []*orderView {
	out := make([]*orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o))
	}

	return out
}

// paymentMethodView never carries credentials, only their field names.
type paymentMethodView struct {
	ID             uint                   `json:"id"`
	StoreID        uint                   `json:"store_id"`
	StoreName      string                 `json:"store_name,omitempty"`
	Provider       entity.PaymentProvider `json:"provider"`
	DisplayName    string                 `json:"display_name"`
	Label          string                 `json:"label"`
	Mode           entity.PaymentMode     `json:"mode"`
	IsActive       bool                   `json:"is_active"`
	IsDefault      bool                   `json:"is_default"`
	CredentialKeys []string               `json:"credential_keys"`
	CreatedAt      time.Time              `json:"created_at"`
}

func newPaymentMethodView(m *entity.PaymentMethod) *paymentMethodView {
	keys := make([]string, 0, len(m.Credentials))
	for k := range m.Credentials {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return &paymentMethodView{
		ID:             m.ID,
		StoreID:        m.StoreID,
		Provider:       m.Provider,
		DisplayName:    m.DisplayName,
		Label:          m.Label(),
		Mode:           m.Mode,
		IsActive:       m.IsActive,
		IsDefault:      m.IsDefault,
		CredentialKeys: keys,
		CreatedAt:      m.CreatedAt,
	}
}

func newPaymentMethodViews(methods []*entity.PaymentMethod) []*paymentMethodView {
	out := make([]*paymentMethodView, 0, len(methods))
	for _, m := range methods {
		out = append(out, newPaymentMethodView(m))
	}

	return out
}

func newStaffPaymentMethodViews(rows []*repository.PaymentMethodWithStore) []*paymentMethodView {
	out := make([]*paymentMethodView, 0, len(rows))
	for _, row := range rows {
		view := newPaymentMethodView(row.Method)
		view.StoreName = row.StoreName
		out = append(out, view)
	}

	return out
}
