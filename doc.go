// Package dao provides generic data access objects over bun. A DAO offers
// lookups by id, paging, counting and filtering with specification.Filter
// values; EntityMapper converts results to and from DTOs.
package dao
