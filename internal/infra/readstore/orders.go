package readstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saddleview/internal/infra"
	"saddleview/internal/infra/projection"
	"saddleview/internal/pkg/pgconv"
	"saddleview/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the slice of pgxpool.Pool the read stores need.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const undefinedTableCode = "42P01"

// wrapReadErr maps a missing projection table to KindUnavailable so the
// query layer can fall through to the live join.
func wrapReadErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
		return infra.WrapRepoErr(msg, err, infra.KindUnavailable)
	}
	return infra.WrapRepoErr(msg, err)
}

// OrderReadStore answers enriched-order queries against one row source:
// either the precomputed projection or the defining join run live. Both
// sources expose identical columns, which is the equivalence contract of
// the read model.
type OrderReadStore struct {
	db       Querier
	listFrom string
	editFrom string
}

func NewOrderSummariesStore(db Querier) *OrderReadStore {
	return &OrderReadStore{
		db:       db,
		listFrom: projection.OrderSummaries,
		editFrom: projection.OrderEditViews,
	}
}

func NewLiveOrderStore(db Querier) *OrderReadStore {
	return &OrderReadStore{
		db:       db,
		listFrom: "(" + projection.OrderSummariesSelect + ") live_orders",
		editFrom: "(" + projection.OrderEditViewsSelect + ") live_edit_views",
	}
}

var orderSortColumns = map[string]string{
	"created":  "created_at DESC",
	"serial":   "serial_number ASC",
	"customer": "customer_name ASC",
	"total":    "total_price_cents DESC",
}

func orderSortClause(sort string) string {
	if clause, ok := orderSortColumns[sort]; ok {
		return clause + ", order_id DESC"
	}
	return "order_id DESC"
}

const orderListColumns = `order_id, serial_number, customer_name, fitter_name, factory_name,
	brand, model, leather_name, status_name, status_code,
	urgent, repair, demo, sponsored, total_price_cents, created_at`

func (s *OrderReadStore) ListOrders(ctx context.Context, f queries.OrderFilter) ([]*queries.EnrichedOrderView, int64, error) {
	where, args := buildOrderWhere(f)

	countSQL := `SELECT count(*) FROM ` + s.listFrom + where
	var total int64
	if err := s.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, wrapReadErr("failed to count enriched orders", err)
	}

	listSQL := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		orderListColumns, s.listFrom, where, orderSortClause(f.Sort), len(args)+1, len(args)+2)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := s.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, wrapReadErr("failed to list enriched orders", err)
	}
	defer rows.Close()

	var result []*queries.EnrichedOrderView
	for rows.Next() {
		view, err := scanEnrichedOrder(rows)
		if err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan enriched order", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapReadErr("failed to iterate enriched orders", err)
	}

	return result, total, nil
}

func buildOrderWhere(f queries.OrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.StatusCode != "" {
		args = append(args, f.StatusCode)
		conds = append(conds, fmt.Sprintf("status_code = $%d", len(args)))
	}
	if f.CustomerID != nil {
		args = append(args, *f.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if f.Urgent != nil {
		args = append(args, *f.Urgent)
		conds = append(conds, fmt.Sprintf("urgent = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanEnrichedOrder(rows pgx.Rows) (*queries.EnrichedOrderView, error) {
	var (
		view         queries.EnrichedOrderView
		serialNumber pgtype.Text
		customerName pgtype.Text
		fitterName   pgtype.Text
		factoryName  pgtype.Text
		brand        pgtype.Text
		model        pgtype.Text
		leatherName  pgtype.Text
		statusName   pgtype.Text
		statusCode   pgtype.Text
	)
	err := rows.Scan(
		&view.OrderID, &serialNumber, &customerName, &fitterName, &factoryName,
		&brand, &model, &leatherName, &statusName, &statusCode,
		&view.Urgent, &view.Repair, &view.Demo, &view.Sponsored,
		&view.TotalPriceCents, &view.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	view.SerialNumber = pgconv.StringPtrFromPgtype(serialNumber)
	view.CustomerName = pgconv.StringPtrFromPgtype(customerName)
	view.FitterName = pgconv.StringPtrFromPgtype(fitterName)
	view.FactoryName = pgconv.StringPtrFromPgtype(factoryName)
	view.Brand = pgconv.StringPtrFromPgtype(brand)
	view.Model = pgconv.StringPtrFromPgtype(model)
	view.LeatherName = pgconv.StringPtrFromPgtype(leatherName)
	view.StatusName = pgconv.StringPtrFromPgtype(statusName)
	view.StatusCode = pgconv.StringPtrFromPgtype(statusCode)
	return &view, nil
}

const orderEditColumns = `order_id, customer_id, fitter_id, factory_id, product_id, leather_type_id,
	status_code, config,
	price_saddle, price_trade_in, price_deposit, price_discount, price_fitting_eval,
	price_call_fee, price_girth, price_shipping, price_tax, price_additional,
	urgent, repair, demo, sponsored`

func (s *OrderReadStore) FindEditView(ctx context.Context, orderID int64) (*queries.OrderEditView, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+orderEditColumns+` FROM `+s.editFrom+` WHERE order_id = $1`, orderID)

	var (
		view          queries.OrderEditView
		customerID    pgtype.Int8
		fitterID      pgtype.Int8
		factoryID     pgtype.Int8
		productID     pgtype.Int8
		leatherTypeID pgtype.Int8
		statusCode    pgtype.Text
		configPayload pgtype.Text
	)
	err := row.Scan(
		&view.OrderID, &customerID, &fitterID, &factoryID, &productID, &leatherTypeID,
		&statusCode, &configPayload,
		&view.Prices.SaddleCents, &view.Prices.TradeInCents, &view.Prices.DepositCents,
		&view.Prices.DiscountCents, &view.Prices.FittingEvalCents, &view.Prices.CallFeeCents,
		&view.Prices.GirthCents, &view.Prices.ShippingCents, &view.Prices.TaxCents,
		&view.Prices.AdditionalCents,
		&view.Urgent, &view.Repair, &view.Demo, &view.Sponsored,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order edit view not found", err, infra.KindNotFound)
		}
		return nil, wrapReadErr("failed to find order edit view", err)
	}

	view.CustomerID = pgconv.Int64PtrFromPgtype(customerID)
	view.FitterID = pgconv.Int64PtrFromPgtype(fitterID)
	view.FactoryID = pgconv.Int64PtrFromPgtype(factoryID)
	view.ProductID = pgconv.Int64PtrFromPgtype(productID)
	view.LeatherTypeID = pgconv.Int64PtrFromPgtype(leatherTypeID)
	view.StatusCode = pgconv.StringPtrFromPgtype(statusCode)
	view.Config = pgconv.StringPtrFromPgtype(configPayload)
	return &view, nil
}
