package delivery

import (
	"errors"
	"strings"

	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

// ErrCustomerIsNotConstructed is returned when attempting to use an
// improperly initialized Customer. Customers must be created using the
// NewCustomer constructor to ensure validity.
var ErrCustomerIsNotConstructed = errs.NewValueIsRequiredError(
	"customer must be created via NewCustomer constructor")

// Customer identifies the recipient of a delivery.
// It is an immutable value object carrying the contact details used for
// notifications and for proof-of-delivery records.
type Customer struct { //nolint:recvcheck //using for validation
	name  string
	phone string
	email string
	guard guard.ConstructorGuard
}

// NewCustomer creates a new Customer with the specified contact details.
//
// The name and phone must be non-empty. The email must be non-empty and
// contain an "@"; full mailbox validation is left to the notification layer.
func NewCustomer(name string, phone string, email string) (Customer, error) {
	customer := Customer{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		customer.setName(name),
		customer.setPhone(phone),
		customer.setEmail(email),
	); err != nil {
		return Customer{}, err
	}

	return customer, nil
}

// Validate checks if the Customer was properly constructed using the constructor.
// The zero value of Customer is invalid and will fail this validation.
func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

// Name returns the customer's name.
func (c Customer) Name() string {
	return c.name
}

// Phone returns the customer's phone number.
func (c Customer) Phone() string {
	return c.phone
}

// Email returns the customer's email address.
func (c Customer) Email() string {
	return c.email
}

func (c *Customer) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	c.name = name
	return nil
}

func (c *Customer) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("customer phone")
	}
	c.phone = phone
	return nil
}

func (c *Customer) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("customer email")
	}
	if !strings.Contains(email, "@") {
		return errs.NewValueIsInvalidError("customer email")
	}
	c.email = email
	return nil
}
