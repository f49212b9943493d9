// Package store provides the SQLite persistence layer: schema,
// case/complaint/college repositories, and database bootstrap.
package store
