package recordstore

import (
	"context"
)

// Store is the generic filtered CRUD collection access the borrow lifecycle
// is built on. The hosted record service implements it over HTTP
// (httpengine); deployments running beside the database implement it with
// Postgres (postgresengine); tests implement it in memory.
//
// Get returns ErrRecordNotFound (possibly wrapped) for a missing record.
// Create and Update return the server-authoritative state of the record,
// including assigned id and timestamps.
type Store interface {
	Get(ctx context.Context, table string, id string) (Record, error)
	List(ctx context.Context, table string, filter ListFilter) (Records, error)
	Create(ctx context.Context, table string, dataJSON []byte) (Record, error)
	Update(ctx context.Context, table string, id string, dataJSON []byte) (Record, error)
	Delete(ctx context.Context, table string, id string) error
}
