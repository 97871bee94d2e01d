// Package authz decides which role may perform which action on which
// resource. Roles come from the JWT; the rules live in a casbin RBAC model.
package authz

import (
	"fmt"

	"storefront/internal/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Resources.
const (
	ResourceProducts = "products"
	ResourceOrders   = "orders"
	ResourceCart     = "cart"
	ResourceProfile  = "profile"
	ResourcePayment  = "payment"
	ResourceExports  = "exports"
)

// Actions.
const (
	ActionRead         = "read"
	ActionWrite        = "write"
	ActionCreate       = "create"
	ActionReadOwn      = "read_own"
	ActionReadAll      = "read_all"
	ActionUpdateStatus = "update_status"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Catalog reads are public and never reach the enforcer.
var policies = [][]string{
	{models.RoleUser, ResourceCart, ActionWrite},
	{models.RoleUser, ResourceOrders, ActionCreate},
	{models.RoleUser, ResourceOrders, ActionReadOwn},
	{models.RoleUser, ResourceProfile, ActionWrite},
	{models.RoleUser, ResourcePayment, ActionCreate},

	{models.RoleAdmin, ResourceProducts, ActionWrite},
	{models.RoleAdmin, ResourceOrders, ActionReadAll},
	{models.RoleAdmin, ResourceOrders, ActionUpdateStatus},
	{models.RoleAdmin, ResourceExports, ActionRead},
}

// Authorizer answers permission questions for a role.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// New builds an Authorizer from the built-in model and policy.
// An admin inherits every permission of a user.
func New() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RBAC model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize RBAC enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("failed to load RBAC policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicy(models.RoleAdmin, models.RoleUser); err != nil {
		return nil, fmt.Errorf("failed to load role inheritance: %w", err)
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// Allowed reports whether role may perform action on resource.
func (a *Authorizer) Allowed(role, resource, action string) (bool, error) {
	ok, err := a.enforcer.Enforce(role, resource, action)
	if err != nil {
		return false, fmt.Errorf("RBAC permission check failed: %w", err)
	}
	return ok, nil
}
