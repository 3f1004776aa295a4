/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/hummer-dao/specification"
	"github.com/tomoncle/hummer-dao/types"
)

// ErrNotFound is returned when no entity has the requested identifier.
var ErrNotFound = errors.New("entity not found")

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	FindByID(ctx context.Context, id any) (*T, error)

	FindAll(ctx context.Context) ([]*T, error)

	Count(ctx context.Context) (int, error)

	ExistsByID(ctx context.Context, id any) (bool, error)

	// Save inserts the entity when no row has its primary key and updates
	// the row otherwise. Generated keys are written back into entity.
	Save(ctx context.Context, entity *T) (*T, error)

	SaveAll(ctx context.Context, entities ...*T) error

	DeleteByID(ctx context.Context, id any) error
}

// QueryRepository defines filter based lookups.
type QueryRepository[T any] interface {
	GetQueryResult(ctx context.Context, filters ...specification.Filter) ([]*T, error)

	CountQueryResult(ctx context.Context, filters ...specification.Filter) (int, error)
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	FindPage(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	GetQueryResultPage(ctx context.Context, page *types.PageRequest, filters ...specification.Filter) (*types.Pagination[T], error)
}

// TransactionRepository binds the repository to a transaction.
type TransactionRepository[T any] interface {
	WithTx(tx bun.Tx) Repository[T]
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository[T]) error) error
}

// Repository combines CRUD, filter, pagination and transactional operations
// and exposes Bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	QueryRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	Dialect() schema.Dialect
	Resolver() specification.TypeResolver
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
