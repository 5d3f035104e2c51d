// Package policy decides, per (actor, entity, operation), whether access
// is granted. It resolves the actor's relationship to the target through
// one indirection (contract -> property -> owner, or contract ->
// tenant -> user) and applies the role rules in a fixed order: existence
// is always checked before relationship, so a missing record surfaces as
// not-found and never as forbidden.
package policy

import (
	"context"
	"errors"

	"github.com/iliyamo/property-rental/internal/repository"
)

// Policy bundles the repositories needed to resolve ownership and
// tenancy linkage. It holds no state of its own.
type Policy struct {
	Properties *repository.PropertyRepo
	Tenants    *repository.TenantRepo
}

// New constructs a Policy and panics if a dependency is nil.
func New(properties *repository.PropertyRepo, tenants *repository.TenantRepo) *Policy {
	if properties == nil || tenants == nil {
		panic("nil repository passed to policy.New")
	}
	return &Policy{Properties: properties, Tenants: tenants}
}

// AuthorizeContractRead grants access to contract-scoped resources
// (the contract itself, its payments, its maintenance list) when the
// actor owns the contract's property or is the contract's tenant. The
// branches are resolved independently: a user holding both roles passes
// if either relationship matches.
func (p *Policy) AuthorizeContractRead(ctx context.Context, actor repository.User, ct *repository.RentalContract) error {
	if actor.IsPropertyOwner {
		prop, err := p.Properties.GetByID(ctx, ct.PropertyID)
		if err != nil {
			return err
		}
		if prop.OwnerID == actor.ID {
			return nil
		}
	}
	if actor.IsTenant {
		ten, err := p.Tenants.GetByUserID(ctx, actor.ID)
		if err != nil && !errors.Is(err, repository.ErrTenantNotFound) {
			return err
		}
		if err == nil && ten.ID == ct.TenantID {
			return nil
		}
	}
	return repository.ErrForbidden
}

// AuthorizeContractManage grants contract mutation (and child-record
// mutation, e.g. maintenance updates) only to the owner of the
// contract's property.
func (p *Policy) AuthorizeContractManage(ctx context.Context, actor repository.User, ct *repository.RentalContract) error {
	if !actor.IsPropertyOwner {
		return repository.ErrForbidden
	}
	prop, err := p.Properties.GetByID(ctx, ct.PropertyID)
	if err != nil {
		return err
	}
	if prop.OwnerID != actor.ID {
		return repository.ErrForbidden
	}
	return nil
}

// AuthorizeMaintenanceCreate grants maintenance-request creation only to
// the tenant named on the contract.
func (p *Policy) AuthorizeMaintenanceCreate(ctx context.Context, actor repository.User, ct *repository.RentalContract) error {
	if !actor.IsTenant {
		return repository.ErrForbidden
	}
	ten, err := p.Tenants.GetByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return repository.ErrForbidden
		}
		return err
	}
	if ten.ID != ct.TenantID {
		return repository.ErrForbidden
	}
	return nil
}

// ScopeKind identifies which listing scope applies to an actor.
type ScopeKind int

const (
	// ScopeNone yields an empty listing.
	ScopeNone ScopeKind = iota
	// ScopeOwner lists contracts across the actor's owned properties.
	ScopeOwner
	// ScopeTenant lists the actor's own contracts.
	ScopeTenant
)

// ContractScope holds the resolved listing scope. TenantID is set only
// for ScopeTenant.
type ContractScope struct {
	Kind     ScopeKind
	TenantID uint64
}

// ContractsScope resolves which contracts the actor may list. The owner
// branch is evaluated first and wins: a user holding both roles gets the
// owner-scoped list only, never the union. That precedence is inherited
// from the original dispatch and is a known product ambiguity; change it
// here if the union is ever wanted.
func (p *Policy) ContractsScope(ctx context.Context, actor repository.User) (ContractScope, error) {
	if actor.IsPropertyOwner {
		return ContractScope{Kind: ScopeOwner}, nil
	}
	if actor.IsTenant {
		ten, err := p.Tenants.GetByUserID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, repository.ErrTenantNotFound) {
				return ContractScope{Kind: ScopeNone}, nil
			}
			return ContractScope{}, err
		}
		return ContractScope{Kind: ScopeTenant, TenantID: ten.ID}, nil
	}
	return ContractScope{Kind: ScopeNone}, nil
}

// AuthorizePropertyWrite grants update/delete on a property to its owner
// only. The property must already have been loaded, so not-found has
// been handled before relationship is checked.
func AuthorizePropertyWrite(actor repository.User, prop *repository.Property) error {
	if !actor.IsPropertyOwner || prop.OwnerID != actor.ID {
		return repository.ErrForbidden
	}
	return nil
}
