// Package database provides connection management, table creation for
// registered models, configuration types, logging, health checks, and
// related utilities built on top of Bun.
package database
