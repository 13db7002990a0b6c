package usecase

import (
	"context"
	"errors"

	"saddleview/internal/infra/projection"
	"saddleview/internal/usecase/queries"
)

var (
	ErrUnknownProjection = errors.New("unknown projection")
	ErrUnknownTable      = errors.New("table is not part of the read model")
)

// watchedTables are the base tables whose commits the external write layer
// reports through OnMutation.
var watchedTables = map[string]struct{}{
	"orders":        {},
	"customers":     {},
	"fitters":       {},
	"factories":     {},
	"products":      {},
	"leather_types": {},
	"statuses":      {},
}

// RefreshUseCase is the operator-facing refresh contract plus the single
// write-side integration point.
type RefreshUseCase interface {
	Refresh(ctx context.Context, name string) (projection.Outcome, error)
	RefreshAll(ctx context.Context) error
	// OnMutation is called by the write layer after every commit to a base
	// table: coarse cache invalidation now, projection refresh debounced.
	OnMutation(ctx context.Context, table string, recordID int64) error
}

type refreshUseCaseImpl struct {
	coordinator *projection.Coordinator
	trigger     *projection.Trigger
	cache       queries.ResultCache
}

func NewRefreshUseCase(coordinator *projection.Coordinator, trigger *projection.Trigger, cache queries.ResultCache) RefreshUseCase {
	return &refreshUseCaseImpl{
		coordinator: coordinator,
		trigger:     trigger,
		cache:       cache,
	}
}

func (u *refreshUseCaseImpl) Refresh(ctx context.Context, name string) (projection.Outcome, error) {
	outcome, err := u.coordinator.Refresh(ctx, name)
	if err != nil {
		if errors.Is(err, projection.ErrUnknownProjection) {
			return "", ErrUnknownProjection
		}
		return "", err
	}
	return outcome, nil
}

func (u *refreshUseCaseImpl) RefreshAll(ctx context.Context) error {
	return u.coordinator.RefreshAll(ctx)
}

func (u *refreshUseCaseImpl) OnMutation(_ context.Context, table string, recordID int64) error {
	if _, ok := watchedTables[table]; !ok {
		return ErrUnknownTable
	}

	// Every watched table feeds the same joins, so both namespaces go.
	u.cache.InvalidateNamespace(queries.NamespaceOrders)
	u.cache.InvalidateNamespace(queries.NamespaceStock)

	u.trigger.Enqueue(projection.MutationEvent{Table: table, RecordID: recordID})
	return nil
}
