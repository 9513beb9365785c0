// Package httpengine implements recordstore.Store against the hosted
// record service's generic CRUD HTTP API.
//
// Records travel as flat JSON objects carrying their own id and timestamps;
// the engine keeps the raw body as the record's data JSON so domain types
// decode directly from it. A 401 response invalidates the shared token
// source the same way the rpc client does, so all transports agree on the
// logged-out state.
package httpengine
