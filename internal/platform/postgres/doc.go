// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces, plus schema migrations embedded in the binary. All database
// errors pass through MapError so callers only ever see the store package's
// error taxonomy.
package postgres
