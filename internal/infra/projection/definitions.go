package projection

import "saddleview/internal/usecase/queries"

// Names of the physically stored projections. Both are rebuilt wholesale and
// swapped atomically; neither is ever updated row by row.
const (
	OrderSummaries = queries.OrderSummariesProjection
	OrderEditViews = queries.OrderEditViewsProjection
)

// Names lists every projection in refresh order: the edit projection is
// rebuilt after the list projection so a trigger burst produces one pass,
// not a storm.
var Names = []string{OrderSummaries, OrderEditViews}

func IsKnown(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// TotalPriceExpr is the SQL mirror of order.PriceComponents.TotalCents. Every
// query path that exposes a total must use this expression; reimplementing the
// formula elsewhere breaks the projection/fallback equivalence contract.
const TotalPriceExpr = `(o.price_saddle - o.price_trade_in - o.price_deposit - o.price_discount` +
	` + o.price_fitting_eval + o.price_call_fee + o.price_girth + o.price_shipping + o.price_tax + o.price_additional)`

// OrderSummariesSelect is the defining join of the list projection. All
// relation joins are LEFT JOINs: orders with missing references (historical
// anomalies) keep their row with null display fields.
const OrderSummariesSelect = `
SELECT
    o.id AS order_id,
    o.serial_number,
    c.name  AS customer_name,
    f.name  AS fitter_name,
    fa.name AS factory_name,
    p.brand,
    p.model,
    lt.name AS leather_name,
    st.name AS status_name,
    st.code AS status_code,
    o.customer_id,
    o.urgent,
    o.repair,
    o.demo,
    o.sponsored,
    o.customizable,
    o.previously_ordered,
    o.stock_holder_id,
    sh.name AS stock_holder_name,
    ` + TotalPriceExpr + ` AS total_price_cents,
    o.created_at
FROM orders o
LEFT JOIN customers     c  ON c.id  = o.customer_id
LEFT JOIN fitters       f  ON f.id  = o.fitter_id
LEFT JOIN factories     fa ON fa.id = o.factory_id
LEFT JOIN products      p  ON p.id  = o.product_id
LEFT JOIN leather_types lt ON lt.id = o.leather_type_id
LEFT JOIN statuses      st ON st.id = o.status_id
LEFT JOIN fitters       sh ON sh.id = o.stock_holder_id`

// OrderEditViewsSelect is the defining join of the edit projection: fewer
// display columns, full configuration payload and raw price components.
const OrderEditViewsSelect = `
SELECT
    o.id AS order_id,
    o.customer_id,
    o.fitter_id,
    o.factory_id,
    o.product_id,
    o.leather_type_id,
    st.code AS status_code,
    o.config,
    o.price_saddle,
    o.price_trade_in,
    o.price_deposit,
    o.price_discount,
    o.price_fitting_eval,
    o.price_call_fee,
    o.price_girth,
    o.price_shipping,
    o.price_tax,
    o.price_additional,
    o.urgent,
    o.repair,
    o.demo,
    o.sponsored
FROM orders o
LEFT JOIN statuses st ON st.id = o.status_id`

const orderSummariesShadowDDL = `
CREATE TABLE order_summaries_shadow (
    order_id           BIGINT NOT NULL,
    serial_number      TEXT,
    customer_name      TEXT,
    fitter_name        TEXT,
    factory_name       TEXT,
    brand              TEXT,
    model              TEXT,
    leather_name       TEXT,
    status_name        TEXT,
    status_code        TEXT,
    customer_id        BIGINT,
    urgent             BOOLEAN NOT NULL,
    repair             BOOLEAN NOT NULL,
    demo               BOOLEAN NOT NULL,
    sponsored          BOOLEAN NOT NULL,
    customizable       BOOLEAN NOT NULL,
    previously_ordered BOOLEAN NOT NULL,
    stock_holder_id    BIGINT,
    stock_holder_name  TEXT,
    total_price_cents  BIGINT NOT NULL,
    created_at         TIMESTAMPTZ NOT NULL
)`

const orderEditViewsShadowDDL = `
CREATE TABLE order_edit_views_shadow (
    order_id           BIGINT NOT NULL,
    customer_id        BIGINT,
    fitter_id          BIGINT,
    factory_id         BIGINT,
    product_id         BIGINT,
    leather_type_id    BIGINT,
    status_code        TEXT,
    config             TEXT,
    price_saddle       BIGINT NOT NULL,
    price_trade_in     BIGINT NOT NULL,
    price_deposit      BIGINT NOT NULL,
    price_discount     BIGINT NOT NULL,
    price_fitting_eval BIGINT NOT NULL,
    price_call_fee     BIGINT NOT NULL,
    price_girth        BIGINT NOT NULL,
    price_shipping     BIGINT NOT NULL,
    price_tax          BIGINT NOT NULL,
    price_additional   BIGINT NOT NULL,
    urgent             BOOLEAN NOT NULL,
    repair             BOOLEAN NOT NULL,
    demo               BOOLEAN NOT NULL,
    sponsored          BOOLEAN NOT NULL
)`

type definition struct {
	shadowName string
	shadowDDL  string
	selectSQL  string
	// uniqueIndexSQL names a stable index so the swap transaction can
	// recreate it after the rename; the drop of the old table frees the name.
	uniqueIndexSQL string
}

var definitions = map[string]definition{
	OrderSummaries: {
		shadowName:     "order_summaries_shadow",
		shadowDDL:      orderSummariesShadowDDL,
		selectSQL:      OrderSummariesSelect,
		uniqueIndexSQL: `CREATE UNIQUE INDEX order_summaries_order_id_key ON order_summaries (order_id)`,
	},
	OrderEditViews: {
		shadowName:     "order_edit_views_shadow",
		shadowDDL:      orderEditViewsShadowDDL,
		selectSQL:      OrderEditViewsSelect,
		uniqueIndexSQL: `CREATE UNIQUE INDEX order_edit_views_order_id_key ON order_edit_views (order_id)`,
	},
}
