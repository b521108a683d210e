package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
)

func isVersionConflict(err error) bool {
	return errors.Is(err, errs.ErrVersionConflict)
}

// Entity lock keys shared by the command handlers. Handlers take these
// locks before opening their transaction and hold them until the event
// publish returns, so per-entity publish order matches commit order.

func vehicleLockKey(id kernel.UUID) string {
	return "vehicle/" + id.String()
}

func deliveryLockKey(id kernel.UUID) string {
	return "delivery/" + id.String()
}
