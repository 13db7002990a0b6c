package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"saddleview/internal/domain/order"
)

var (
	ErrScopeRejected   = errors.New("requested scope not permitted for this role")
	ErrInvalidScope    = errors.New("invalid scope")
	ErrOrderNotFound   = errors.New("order not found")
	ErrFallbackTimeout = errors.New("live query timed out, retry later")
)

// Physical projection names served by the read stores. The projection infra
// keys its definitions on these.
const (
	OrderSummariesProjection = "order_summaries"
	OrderEditViewsProjection = "order_edit_views"
)

// Cache namespaces, one per query family; invalidation clears a whole
// namespace at once.
const (
	NamespaceOrders = "orders"
	NamespaceStock  = "stock"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Read models (DTO for read side)

type EnrichedOrderView struct {
	OrderID         int64     `json:"order_id"`
	SerialNumber    *string   `json:"serial_number,omitempty"`
	CustomerName    *string   `json:"customer_name,omitempty"`
	FitterName      *string   `json:"fitter_name,omitempty"`
	FactoryName     *string   `json:"factory_name,omitempty"`
	Brand           *string   `json:"brand,omitempty"`
	Model           *string   `json:"model,omitempty"`
	LeatherName     *string   `json:"leather_name,omitempty"`
	StatusName      *string   `json:"status_name,omitempty"`
	StatusCode      *string   `json:"status_code,omitempty"`
	Urgent          bool      `json:"urgent"`
	Repair          bool      `json:"repair"`
	Demo            bool      `json:"demo"`
	Sponsored       bool      `json:"sponsored"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrderEditView struct {
	OrderID       int64                 `json:"order_id"`
	CustomerID    *int64                `json:"customer_id,omitempty"`
	FitterID      *int64                `json:"fitter_id,omitempty"`
	FactoryID     *int64                `json:"factory_id,omitempty"`
	ProductID     *int64                `json:"product_id,omitempty"`
	LeatherTypeID *int64                `json:"leather_type_id,omitempty"`
	StatusCode    *string               `json:"status_code,omitempty"`
	Config        *string               `json:"config,omitempty"`
	Prices        order.PriceComponents `json:"prices"`
	Urgent        bool                  `json:"urgent"`
	Repair        bool                  `json:"repair"`
	Demo          bool                  `json:"demo"`
	Sponsored     bool                  `json:"sponsored"`
}

type StockItemView struct {
	OrderID           int64   `json:"order_id"`
	SerialNumber      *string `json:"serial_number,omitempty"`
	HolderID          int64   `json:"holder_id"`
	HolderName        *string `json:"holder_name,omitempty"`
	Brand             *string `json:"brand,omitempty"`
	Model             *string `json:"model,omitempty"`
	Demo              bool    `json:"demo"`
	Customizable      bool    `json:"customizable"`
	PreviouslyOrdered bool    `json:"previously_ordered"`
	Sponsored         bool    `json:"sponsored"`
}

type OrderPage struct {
	Items      []*EnrichedOrderView `json:"items"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
}

type StockPage struct {
	Items      []*StockItemView `json:"items"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// OrderFilter is the full query shape of the enriched list; its canonical
// encoding is the cache key.
type OrderFilter struct {
	StatusCode string
	CustomerID *int64
	Urgent     *bool
	Sort       string
	Page       int
	PageSize   int
}

func (f OrderFilter) CacheKey() string {
	customer := "-"
	if f.CustomerID != nil {
		customer = fmt.Sprintf("%d", *f.CustomerID)
	}
	urgent := "-"
	if f.Urgent != nil {
		urgent = fmt.Sprintf("%t", *f.Urgent)
	}
	return fmt.Sprintf("%s|status=%s|customer=%s|urgent=%s|sort=%s|page=%d|size=%d",
		NamespaceOrders, f.StatusCode, customer, urgent, f.Sort, f.Page, f.PageSize)
}

// StockFilter is the stock query shape after scope resolution.
type StockFilter struct {
	Scope    ScopeDescriptor
	Search   string
	Sort     string
	Page     int
	PageSize int
}

func (f StockFilter) CacheKey() string {
	holder := "-"
	if f.Scope.HolderID != nil {
		holder = fmt.Sprintf("%d", *f.Scope.HolderID)
	}
	return fmt.Sprintf("%s|scope=%s|holder=%s|q=%s|sort=%s|page=%d|size=%d",
		NamespaceStock, f.Scope.Scope, holder, strings.ToLower(f.Search), f.Sort, f.Page, f.PageSize)
}

// Ports implemented by internal/infra/readstore. The projection-backed store
// and the live-join fallback implement the same interface so callers cannot
// distinguish which path served them except by latency.

type OrderReadStore interface {
	ListOrders(ctx context.Context, f OrderFilter) ([]*EnrichedOrderView, int64, error)
	FindEditView(ctx context.Context, orderID int64) (*OrderEditView, error)
}

type StockReadStore interface {
	ListStock(ctx context.Context, f StockFilter) ([]*StockItemView, int64, error)
}

type ResultCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	InvalidateNamespace(namespace string)
}

type ProjectionStatus struct {
	Built       bool
	RefreshedAt time.Time
}

type ProjectionHealth interface {
	Status(name string) ProjectionStatus
}

func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
