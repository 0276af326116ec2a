// Package store defines the persistence interfaces and shared error
// taxonomy for the application's entities. Concrete implementations live
// in internal/platform/postgres.
package store
