// Package identity bridges the legacy sequential identifier space and the
// opaque UUID space introduced during the account migration. It is a
// compatibility shim: new code keys on one canonical identifier per entity
// and only crosses schemes through this resolver.
package identity

import (
	"context"

	"saddleview/internal/infra"
	"saddleview/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Entity string

const (
	EntityCustomer Entity = "customers"
	EntityFitter   Entity = "fitters"
)

// rowQuerier is the narrow slice of pgxpool.Pool the resolver needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Resolver struct {
	db rowQuerier
}

func NewResolver(db rowQuerier) *Resolver {
	return &Resolver{db: db}
}

// lookup tables are fixed; Entity values never come from request input.
var legacyByPublicSQL = map[Entity]string{
	EntityCustomer: `SELECT id FROM customers WHERE public_id = $1`,
	EntityFitter:   `SELECT id FROM fitters WHERE public_id = $1`,
}

var publicByLegacySQL = map[Entity]string{
	EntityCustomer: `SELECT public_id FROM customers WHERE id = $1 AND public_id IS NOT NULL`,
	EntityFitter:   `SELECT public_id FROM fitters WHERE id = $1 AND public_id IS NOT NULL`,
}

// LegacyID translates an opaque identifier to its legacy sequential one.
// A missing mapping is a valid outcome, not an error.
func (r *Resolver) LegacyID(ctx context.Context, entity Entity, publicID uuid.UUID) (int64, bool, error) {
	query, ok := legacyByPublicSQL[entity]
	if !ok {
		return 0, false, infra.WrapRepoErr("unknown entity for identifier resolution", nil, infra.KindNotFound)
	}

	var id int64
	err := r.db.QueryRow(ctx, query, publicID).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, infra.WrapRepoErr("failed to resolve legacy identifier", err)
	}

	return id, true, nil
}

// PublicID translates a legacy sequential identifier to its opaque one.
func (r *Resolver) PublicID(ctx context.Context, entity Entity, legacyID int64) (uuid.UUID, bool, error) {
	query, ok := publicByLegacySQL[entity]
	if !ok {
		return uuid.Nil, false, infra.WrapRepoErr("unknown entity for identifier resolution", nil, infra.KindNotFound)
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, legacyID).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, infra.WrapRepoErr("failed to resolve public identifier", err)
	}

	return id, true, nil
}

// FitterForAccount resolves a caller's account to the fitter record it belongs
// to. Accounts without a fitter (back-office staff, historical accounts) are a
// normal case and resolve to absent.
func (r *Resolver) FitterForAccount(ctx context.Context, accountID uuid.UUID) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM fitters WHERE account_id = $1`, accountID).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, infra.WrapRepoErr("failed to resolve fitter for account", err)
	}

	return id, true, nil
}
