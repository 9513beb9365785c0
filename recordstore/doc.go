// Package recordstore provides the contract for generic filtered CRUD
// collection access as the borrow lifecycle consumes it.
//
// The package defines the Store interface, the Record transfer type and a
// fluent builder for list filters. Concrete engines live in sub-packages:
//   - httpengine talks to the hosted record service over HTTP
//   - postgresengine stores records in Postgres for deployments that run
//     beside the database
//
// Common usage pattern:
//
//	filter := recordstore.BuildListFilter().
//		Matching().
//		AllFieldValuesOf(
//			recordstore.P("status", "pending"),
//			recordstore.P("library_id", libraryID)).
//		AndSortedByDesc("created").
//		Finalize()
//
//	records, err := store.List(ctx, lending.TableBorrowRequests, filter)
package recordstore
