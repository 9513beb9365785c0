// Package approverequest implements the owner's approve action: it computes
// the effective due date, calls the approve procedure, folds the result into
// the caller's view optimistically, and spawns reminder scheduling as a
// best-effort side effect that can never fail the already-succeeded
// approval.
package approverequest
