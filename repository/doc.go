// Package repository provides a generic repository abstraction built on Bun
// for CRUD operations, filter queries, pagination and transactions.
package repository
