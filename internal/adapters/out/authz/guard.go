// Package authz implements the authorization guard on top of casbin.
// Role-level grants live in an in-memory casbin policy; ownership checks
// that need the loaded aggregate (a driver may only touch their own vehicle
// or delivery) are applied on top of the policy decision.
package authz

import (
	"fmt"

	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

const (
	objectDispatch = "dispatch"
	objectVehicle  = "vehicle"
	objectDelivery = "delivery"

	actionManage = "manage"
	actionMutate = "mutate"
	actionReport = "report"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// rolePolicies holds the role-level grants. Drivers get mutate grants on
// vehicles and deliveries; whether the specific aggregate is theirs is
// checked separately because casbin only sees the role.
func rolePolicies() [][]string {
	admin := kernel.RoleAdmin.String()
	driver := kernel.RoleDriver.String()

	return [][]string{
		{admin, objectDispatch, actionManage},
		{admin, objectVehicle, actionMutate},
		{admin, objectDelivery, actionMutate},
		{driver, objectVehicle, actionMutate},
		{driver, objectVehicle, actionReport},
		{driver, objectDelivery, actionMutate},
	}
}

// CasbinAuthorizationGuard enforces the mutation access rules of the
// AuthorizationGuard port with a casbin enforcer.
type CasbinAuthorizationGuard struct {
	enforcer *casbin.Enforcer
}

// NewCasbinAuthorizationGuard creates a guard with the built-in role policy
// loaded into an in-memory enforcer.
func NewCasbinAuthorizationGuard() (*CasbinAuthorizationGuard, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authorization model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("init authorization enforcer: %w", err)
	}

	if _, err = enforcer.AddPolicies(rolePolicies()); err != nil {
		return nil, fmt.Errorf("load authorization policy: %w", err)
	}

	return &CasbinAuthorizationGuard{enforcer: enforcer}, nil
}

// AuthorizeDispatch checks the principal may perform dispatcher-only
// operations such as creating vehicles and deliveries.
func (g *CasbinAuthorizationGuard) AuthorizeDispatch(principal kernel.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	return g.enforce(principal, objectDispatch, actionManage, "dispatch operation")
}

// AuthorizeVehicle checks the principal may mutate the given vehicle.
// Drivers pass only for the vehicle they operate.
func (g *CasbinAuthorizationGuard) AuthorizeVehicle(
	principal kernel.Principal,
	aggregate *vehicle.Vehicle,
) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	if err := g.enforce(principal, objectVehicle, actionMutate, "vehicle mutation"); err != nil {
		return err
	}
	if principal.IsDriver() && !principal.ID().IsEqual(aggregate.DriverID()) {
		return errs.NewNotAuthorizedError("vehicle mutation")
	}
	return nil
}

// AuthorizeVehicleLocation checks the principal may report the given
// vehicle's position. Position reports come from the cab, so only the
// operating driver passes; admins hold no report grant.
func (g *CasbinAuthorizationGuard) AuthorizeVehicleLocation(
	principal kernel.Principal,
	aggregate *vehicle.Vehicle,
) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	if err := g.enforce(principal, objectVehicle, actionReport, "vehicle location report"); err != nil {
		return err
	}
	if !principal.ID().IsEqual(aggregate.DriverID()) {
		return errs.NewNotAuthorizedError("vehicle location report")
	}
	return nil
}

// AuthorizeDelivery checks the principal may mutate the given delivery.
// Drivers pass only for deliveries dispatched to them.
func (g *CasbinAuthorizationGuard) AuthorizeDelivery(
	principal kernel.Principal,
	aggregate *delivery.Delivery,
) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	if err := g.enforce(principal, objectDelivery, actionMutate, "delivery mutation"); err != nil {
		return err
	}
	if principal.IsDriver() && !principal.ID().IsEqual(aggregate.AssignedDriverID()) {
		return errs.NewNotAuthorizedError("delivery mutation")
	}
	return nil
}

func (g *CasbinAuthorizationGuard) enforce(
	principal kernel.Principal,
	object string,
	action string,
	operation string,
) error {
	allowed, err := g.enforcer.Enforce(principal.Role().String(), object, action)
	if err != nil {
		return errs.NewNotAuthorizedErrorWithCause(operation, err)
	}
	if !allowed {
		return errs.NewNotAuthorizedError(operation)
	}
	return nil
}
