package queries

import (
	"context"

	"saddleview/internal/domain/user"
	"saddleview/internal/pkg/errs"

	"github.com/google/uuid"
)

type Scope string

const (
	// ScopeMine limits rows to stock the caller's own fitter holds.
	ScopeMine Scope = "mine"
	// ScopeAvailable limits rows to stock held by any other fitter.
	ScopeAvailable Scope = "available"
	// ScopeAll is the unrestricted view, privileged roles only.
	ScopeAll Scope = "all"
)

// ParseScope treats an absent parameter as the narrowest scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "":
		return ScopeMine, nil
	case ScopeMine, ScopeAvailable, ScopeAll:
		return Scope(s), nil
	default:
		return "", ErrInvalidScope
	}
}

// Actor is the authenticated caller as established by the auth middleware.
type Actor struct {
	AccountID uuid.UUID
	Role      user.Role
}

// ScopeDescriptor is the resolved row filter for one request. HolderID is
// the caller's fitter in the legacy identifier space; nil means the caller's
// account maps to no fitter record.
type ScopeDescriptor struct {
	Scope    Scope
	HolderID *int64
}

// IsEmptyResult reports that the scope cannot match any row: "mine" for a
// caller with no associated fitter is an empty page, not an error.
func (d ScopeDescriptor) IsEmptyResult() bool {
	return d.Scope == ScopeMine && d.HolderID == nil
}

// FitterIdentity resolves a caller account to its fitter record; satisfied
// by identity.Resolver.
type FitterIdentity interface {
	FitterForAccount(ctx context.Context, accountID uuid.UUID) (int64, bool, error)
}

// Planner narrows a requested scope plus caller identity to a concrete row
// filter before the cache or any query path runs.
type Planner struct {
	identities FitterIdentity
}

func NewPlanner(identities FitterIdentity) *Planner {
	return &Planner{identities: identities}
}

func (p *Planner) Resolve(ctx context.Context, actor Actor, requested Scope) (ScopeDescriptor, error) {
	if requested == ScopeAll {
		if !actor.Role.IsPrivileged() {
			// Rejected, never silently downgraded.
			return ScopeDescriptor{}, ErrScopeRejected
		}
		return ScopeDescriptor{Scope: ScopeAll}, nil
	}

	fitterID, found, err := p.identities.FitterForAccount(ctx, actor.AccountID)
	if err != nil {
		return ScopeDescriptor{}, errs.Wrap(err, "failed to resolve caller identity")
	}

	desc := ScopeDescriptor{Scope: requested}
	if found {
		desc.HolderID = &fitterID
	}
	return desc, nil
}
