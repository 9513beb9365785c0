// Package declinerequest implements the owner's decline action. The
// transition is gated on an explicit confirmation flag set by a separate
// user step; the request leaves the local pending set only after the server
// update succeeded.
package declinerequest
