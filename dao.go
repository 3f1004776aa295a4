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

package dao

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/hummer-dao/database"
	"github.com/tomoncle/hummer-dao/repository"
	"github.com/tomoncle/hummer-dao/specification"
	"github.com/tomoncle/hummer-dao/types"
)

// DAO is the caller facing data access object for entity type T.
type DAO[T any] interface {
	// FindByID returns the entity with the given primary key or an error
	// wrapping repository.ErrNotFound.
	FindByID(ctx context.Context, id any) (*T, error)

	FindAll(ctx context.Context) ([]*T, error)

	FindPage(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	Count(ctx context.Context) (int, error)

	// GetQueryResult returns the entities matching every filter.
	GetQueryResult(ctx context.Context, filters ...specification.Filter) ([]*T, error)

	GetQueryResultPage(ctx context.Context, page *types.PageRequest, filters ...specification.Filter) (*types.Pagination[T], error)

	CountQueryResult(ctx context.Context, filters ...specification.Filter) (int, error)

	ExistsByID(ctx context.Context, id any) (bool, error)

	// Save inserts or updates entity and returns it.
	Save(ctx context.Context, entity *T) (*T, error)

	DeleteByID(ctx context.Context, id any) error

	// Repository exposes the underlying repository. It is nil for a DAO built
	// by NewDefault until the global database is available.
	Repository() repository.Repository[T]
}

type baseDAOImpl[T any] struct {
	mu   sync.Mutex
	repo repository.Repository[T]
	opts []repository.Option
}

// New returns a DAO over db.
func New[T any](db *bun.DB, opts ...repository.Option) DAO[T] {
	return &baseDAOImpl[T]{repo: repository.NewRepository[T](db, opts...)}
}

// NewDefault returns a DAO bound lazily to the global database set up by
// database.InitDB. Calls made before InitDB fail with database.ErrNotConnected.
func NewDefault[T any](opts ...repository.Option) DAO[T] {
	return &baseDAOImpl[T]{opts: opts}
}

func (d *baseDAOImpl[T]) baseRepo() (repository.Repository[T], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.repo != nil {
		return d.repo, nil
	}
	db := database.GetDB()
	if db == nil {
		return nil, database.ErrNotConnected
	}
	d.repo = repository.NewRepository[T](db, d.opts...)
	return d.repo, nil
}

func (d *baseDAOImpl[T]) FindByID(ctx context.Context, id any) (*T, error) {
	repo, err := d.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}

func (d *baseDAOImpl[T]) FindAll(ctx context.Context) ([]*T, error) {
	repo, err := d.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindAll(ctx)
}

func (d *baseDAOImpl[T]) FindPage(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	repo, err := d.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindPage(ctx, page)
}

func (d *baseDAOImpl[T]) Count(ctx context.Context) (int, error) {
	repo, err := d.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx)
}

func (d *baseDAOImpl[T]) GetQueryResult(ctx context.Context, filters ...specification.Filter) ([]*T, error) {
	repo, err := d.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetQueryResult(ctx, filters...)
}

func (d *baseDAOImpl[T]) GetQueryResultPage(ctx context.Context, page *types.PageRequest, filters ...specification.Filter) (*types.Pagination[T], error) {
	repo, err := d.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetQueryResultPage(ctx, page, filters...)
}

func (d *baseDAOImpl[T]) CountQueryResult(ctx context.Context, filters ...specification.Filter) (int, error) {
	repo, err := d.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.CountQueryResult(ctx, filters...)
}

func (d *baseDAOImpl[T]) ExistsByID(ctx context.Context, id any) (bool, error) {
	repo, err := d.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.ExistsByID(ctx, id)
}

func (d *baseDAOImpl[T]) Save(ctx context.Context, entity *T) (*T, error) {
	repo, err := d.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Save(ctx, entity)
}

func (d *baseDAOImpl[T]) DeleteByID(ctx context.Context, id any) error {
	repo, err := d.baseRepo()
	if err != nil {
		return err
	}
	return repo.DeleteByID(ctx, id)
}

func (d *baseDAOImpl[T]) Repository() repository.Repository[T] {
	repo, _ := d.baseRepo()
	return repo
}
