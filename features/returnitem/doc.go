// Package returnitem implements the owner's mark-returned action, gated on
// an explicit confirmation flag. The loan leaves the local open set only
// after the return procedure succeeded.
package returnitem
