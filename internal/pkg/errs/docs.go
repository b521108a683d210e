// Package errs provides standardized error types for the fleet dispatch
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package defines the full error taxonomy of the dispatch core:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError:
//     malformed input, never retried automatically
//   - ObjectNotFoundError: referenced entity does not exist or is inactive
//   - NotAuthorizedError: the authorization guard denied the action
//   - VersionConflictError: a concurrent mutation raced and lost; the caller
//     should re-read current state and decide whether to retry
//   - InvalidTransitionError: the requested status change is not a legal edge
//     in the relevant state machine
//   - VehicleUnavailableError: assignment attempted against a non-available vehicle
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrVersionConflict)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method resolving to the sentinel for errors.Is classification
//
// This standardized approach to error handling improves error reporting,
// makes error handling more consistent, and lets transport adapters distinguish
// "retry safely" conflicts from terminal rejections.
package errs
