//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// SeedReferenceData inserts the lookup rows every scenario depends on.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		INSERT INTO statuses (code, name) VALUES
			('ordered', 'Ordered'),
			('in_production', 'In Production'),
			('delivered', 'Delivered')
		ON CONFLICT (code) DO NOTHING`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO factories (name)
		SELECT 'Walsall Works'
		WHERE NOT EXISTS (SELECT 1 FROM factories)`)
	return err
}

// ResetDB truncates mutable tables between subtests and reseeds lookups.
func ResetDB(pool *pgxpool.Pool) error {
	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		TRUNCATE orders, customers, fitters, products, leather_types,
			order_summaries, order_edit_views, projection_state
		RESTART IDENTITY CASCADE`)
	if err != nil {
		return err
	}
	return SeedReferenceData(pool)
}

func CreateTestFitter(t *testing.T, pool *pgxpool.Pool, name string, accountID uuid.UUID) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO fitters (name, account_id) VALUES ($1, $2) RETURNING id`,
		name, accountID).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreateTestCustomer(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO customers (name, public_id) VALUES ($1, $2) RETURNING id`,
		name, uuid.New()).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreateTestProduct(t *testing.T, pool *pgxpool.Pool, brand, model string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (brand, model) VALUES ($1, $2) RETURNING id`,
		brand, model).Scan(&id)
	require.NoError(t, err)
	return id
}

// OrderParams carries the optional pieces of a test order; zero values mean
// the column stays null or false.
type OrderParams struct {
	SerialNumber  string
	CustomerID    *int64
	ProductID     *int64
	StockHolderID *int64
	StatusCode    string
	Demo          bool
	Urgent        bool
	PriceSaddle   int64
	PriceTradeIn  int64
	PriceShipping int64
	PriceTax      int64
}

func CreateTestOrder(t *testing.T, pool *pgxpool.Pool, p OrderParams) int64 {
	t.Helper()

	ctx := context.Background()
	var statusID *int64
	if p.StatusCode != "" {
		var id int64
		err := pool.QueryRow(ctx, `SELECT id FROM statuses WHERE code = $1`, p.StatusCode).Scan(&id)
		require.NoError(t, err)
		statusID = &id
	}

	var serial *string
	if p.SerialNumber != "" {
		serial = &p.SerialNumber
	}

	var orderID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO orders (
			serial_number, customer_id, product_id, stock_holder_id, status_id,
			demo, urgent, price_saddle, price_trade_in, price_shipping, price_tax,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		serial, p.CustomerID, p.ProductID, p.StockHolderID, statusID,
		p.Demo, p.Urgent, p.PriceSaddle, p.PriceTradeIn, p.PriceShipping, p.PriceTax,
		time.Now()).Scan(&orderID)
	require.NoError(t, err)
	return orderID
}
