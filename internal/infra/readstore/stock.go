package readstore

import (
	"context"
	"fmt"
	"strings"

	"saddleview/internal/infra"
	"saddleview/internal/infra/projection"
	"saddleview/internal/pkg/pgconv"
	"saddleview/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// StockReadStore serves the stock subset of the order summaries: rows whose
// order is still held by a fitter rather than delivered to a customer.
type StockReadStore struct {
	db   Querier
	from string
}

func NewStockSummariesStore(db Querier) *StockReadStore {
	return &StockReadStore{db: db, from: projection.OrderSummaries}
}

func NewLiveStockStore(db Querier) *StockReadStore {
	return &StockReadStore{db: db, from: "(" + projection.OrderSummariesSelect + ") live_stock"}
}

var stockSortColumns = map[string]string{
	"serial": "serial_number ASC",
	"brand":  "brand ASC, model ASC",
	"holder": "stock_holder_name ASC",
}

func stockSortClause(sort string) string {
	if clause, ok := stockSortColumns[sort]; ok {
		return clause + ", order_id DESC"
	}
	return "order_id DESC"
}

const stockColumns = `order_id, serial_number, stock_holder_id, stock_holder_name,
	brand, model, demo, customizable, previously_ordered, sponsored`

func (s *StockReadStore) ListStock(ctx context.Context, f queries.StockFilter) ([]*queries.StockItemView, int64, error) {
	where, args := buildStockWhere(f)

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM `+s.from+where, args...).Scan(&total); err != nil {
		return nil, 0, wrapReadErr("failed to count stock", err)
	}

	listSQL := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		stockColumns, s.from, where, stockSortClause(f.Sort), len(args)+1, len(args)+2)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := s.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, wrapReadErr("failed to list stock", err)
	}
	defer rows.Close()

	var result []*queries.StockItemView
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan stock row", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapReadErr("failed to iterate stock rows", err)
	}

	return result, total, nil
}

func buildStockWhere(f queries.StockFilter) (string, []any) {
	conds := []string{"stock_holder_id IS NOT NULL"}
	var args []any

	switch f.Scope.Scope {
	case queries.ScopeMine:
		// Planner guarantees a holder here; an unresolved caller never
		// reaches the query path.
		args = append(args, *f.Scope.HolderID)
		conds = append(conds, fmt.Sprintf("stock_holder_id = $%d", len(args)))
	case queries.ScopeAvailable:
		if f.Scope.HolderID != nil {
			args = append(args, *f.Scope.HolderID)
			conds = append(conds, fmt.Sprintf("stock_holder_id <> $%d", len(args)))
		}
	case queries.ScopeAll:
		// no scope condition
	}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(serial_number ILIKE $%d OR brand ILIKE $%d OR model ILIKE $%d OR stock_holder_name ILIKE $%d)",
			n, n, n, n))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func scanStockItem(rows pgx.Rows) (*queries.StockItemView, error) {
	var (
		item         queries.StockItemView
		serialNumber pgtype.Text
		holderName   pgtype.Text
		brand        pgtype.Text
		model        pgtype.Text
	)
	err := rows.Scan(
		&item.OrderID, &serialNumber, &item.HolderID, &holderName,
		&brand, &model, &item.Demo, &item.Customizable, &item.PreviouslyOrdered, &item.Sponsored,
	)
	if err != nil {
		return nil, err
	}

	item.SerialNumber = pgconv.StringPtrFromPgtype(serialNumber)
	item.HolderName = pgconv.StringPtrFromPgtype(holderName)
	item.Brand = pgconv.StringPtrFromPgtype(brand)
	item.Model = pgconv.StringPtrFromPgtype(model)
	return &item, nil
}
