// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores accept a store.DBTX so they work equally over a
// connection pool or a transaction, and map driver errors through MapError
// so callers only ever see the store error taxonomy.
package postgres
