// Package schedulereminders computes and persists the reminder sequence for
// an approved loan.
//
// Planning is a pure function over the command and the current time;
// persistence happens record by record and is not rolled back on partial
// failure. The approval flow invokes this exactly once per loan, as a
// best-effort side effect.
package schedulereminders
