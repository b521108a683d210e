package kernel

import (
	"errors"
	"fmt"

	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

// Role identifies the access level of an authenticated caller.
// It is a value object used by the authorization layer to decide which
// operations a principal may perform.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	// This value (0) helps catch uninitialized Role values.
	RoleUnknown Role = iota

	// RoleAdmin has unrestricted access to all operations.
	RoleAdmin

	// RoleDriver may manage the vehicle it operates and the deliveries
	// assigned to that vehicle.
	RoleDriver

	// RoleCustomer has read-only access to delivery information.
	RoleCustomer
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleAdmin:    "admin",
		RoleDriver:   "driver",
		RoleCustomer: "customer",
	}
}

func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleAdmin:    "admin",
		RoleDriver:   "driver",
		RoleCustomer: "customer",
	}
}

// RoleFromString parses a role name as carried in access tokens.
//
// Valid names are "admin", "driver" and "customer". Any other value
// results in a ValueIsInvalidError.
func RoleFromString(value string) (Role, error) {
	for role, name := range getValidRoleStrings() {
		if name == value {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", value))
}

// Validate checks if the Role value is valid.
// Valid roles are: RoleAdmin, RoleDriver, RoleCustomer.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the lowercase name of the role.
// This method implements the fmt.Stringer interface and is safe
// to call on any Role value, including invalid ones.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// ErrPrincipalIsNotConstructed is returned when attempting to use an
// improperly initialized Principal. Principals must be created using the
// NewPrincipal constructor to ensure validity.
var ErrPrincipalIsNotConstructed = errs.NewValueIsRequiredError(
	"principal must be created via NewPrincipal constructor")

// Principal is the authenticated identity on whose behalf an operation runs.
// It carries the caller's unique identifier and role, extracted from the
// access token by the transport layer and threaded through commands and
// queries for authorization decisions.
//
// The zero value of Principal is invalid and will fail validation - use the
// constructor to create instances.
type Principal struct { //nolint:recvcheck //using for validation
	id    UUID
	role  Role
	guard guard.ConstructorGuard
}

// NewPrincipal creates a new Principal with the specified identity and role.
//
// Returns an error if the id is not a properly constructed UUID or the
// role is invalid.
func NewPrincipal(id UUID, role Role) (Principal, error) {
	principal := Principal{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(principal.setID(id), principal.setRole(role)); err != nil {
		return Principal{}, err
	}

	return principal, nil
}

// Validate checks if the Principal was properly constructed using the constructor.
func (p Principal) Validate() error {
	return p.guard.Validate(ErrPrincipalIsNotConstructed)
}

// ID returns the unique identifier of the caller.
func (p Principal) ID() UUID {
	return p.id
}

// Role returns the caller's role.
func (p Principal) Role() Role {
	return p.role
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool {
	return p.role == RoleAdmin
}

// IsDriver reports whether the principal has the driver role.
func (p Principal) IsDriver() bool {
	return p.role == RoleDriver
}

// IsCustomer reports whether the principal has the customer role.
func (p Principal) IsCustomer() bool {
	return p.role == RoleCustomer
}

func (p *Principal) setID(id UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("principal id", err)
	}
	p.id = id
	return nil
}

func (p *Principal) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	p.role = role
	return nil
}
