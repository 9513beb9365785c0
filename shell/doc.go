// Package shell holds the imperative glue around the pure lifecycle logic.
//
// Its main export is the best-effort task runner: a deliberate home for
// fire-and-forget side effects (reminder scheduling after an approval) whose
// failure is logged but never awaited or surfaced by the triggering caller,
// because the primary transition already succeeded.
package shell
