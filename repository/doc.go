// Package repository provides a generic repository abstraction built on Bun
// for CRUD operations, querying, pagination, transactions, upsert, and the
// truncate support fixture loading relies on.
package repository
