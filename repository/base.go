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
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/hummer-dao/database"
	"github.com/tomoncle/hummer-dao/specification"
	"github.com/tomoncle/hummer-dao/types"
)

type baseRepositoryImpl[T any] struct {
	db         bun.IDB
	table      *schema.Table
	resolver   specification.TypeResolver
	translator *specification.Translator
	logger     database.Logger
}

// Option configures a repository.
type Option func(*options)

type options struct {
	resolver specification.TypeResolver
	logger   database.Logger
}

// WithResolver replaces the field schema derived from the model's bun tags.
func WithResolver(resolver specification.TypeResolver) Option {
	return func(o *options) { o.resolver = resolver }
}

// WithLogger sets the logger used for query diagnostics.
func WithLogger(logger database.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB, opts ...Option) Repository[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	table := db.Table(reflect.TypeOf((*T)(nil)).Elem())
	if o.resolver == nil {
		o.resolver = specification.SchemaFromTable(table)
	}
	if o.logger == nil {
		o.logger = database.GetLogger()
	}
	return &baseRepositoryImpl[T]{
		db:         db,
		table:      table,
		resolver:   o.resolver,
		translator: specification.NewTranslator(o.resolver),
		logger:     o.logger,
	}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) Resolver() specification.TypeResolver { return r.resolver }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) pkColumn() string {
	if len(r.table.PKs) > 0 {
		return r.table.PKs[0].Name
	}
	return "id"
}

func (r *baseRepositoryImpl[T]) FindByID(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("? = ?", bun.Ident(r.pkColumn()), id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %v: %w", ErrNotFound, r.table.Name, id, err)
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) FindAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*T)(nil)).Count(ctx)
}

func (r *baseRepositoryImpl[T]) ExistsByID(ctx context.Context, id any) (bool, error) {
	return r.db.NewSelect().Model((*T)(nil)).Where("? = ?", bun.Ident(r.pkColumn()), id).Exists(ctx)
}

func (r *baseRepositoryImpl[T]) Save(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, fmt.Errorf("entity cannot be nil")
	}
	exists, err := r.db.NewSelect().Model(entity).WherePK().Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		_, err = r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	} else {
		_, err = r.db.NewInsert().Model(entity).Exec(ctx)
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) SaveAll(ctx context.Context, entities ...*T) error {
	return r.RunInTx(ctx, func(ctx context.Context, repo Repository[T]) error {
		for _, entity := range entities {
			if _, err := repo.Save(ctx, entity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *baseRepositoryImpl[T]) DeleteByID(ctx context.Context, id any) error {
	_, err := r.db.NewDelete().Model((*T)(nil)).Where("? = ?", bun.Ident(r.pkColumn()), id).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) GetQueryResult(ctx context.Context, filters ...specification.Filter) ([]*T, error) {
	pred, err := r.predicate(filters)
	if err != nil {
		return nil, err
	}
	var entities []*T
	err = r.db.NewSelect().Model(&entities).ApplyQueryBuilder(apply(pred)).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) CountQueryResult(ctx context.Context, filters ...specification.Filter) (int, error) {
	pred, err := r.predicate(filters)
	if err != nil {
		return 0, err
	}
	return r.db.NewSelect().Model((*T)(nil)).ApplyQueryBuilder(apply(pred)).Count(ctx)
}

func (r *baseRepositoryImpl[T]) FindPage(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	return r.page(ctx, pageRequest, nil)
}

func (r *baseRepositoryImpl[T]) GetQueryResultPage(ctx context.Context, pageRequest *types.PageRequest, filters ...specification.Filter) (*types.Pagination[T], error) {
	pred, err := r.predicate(filters)
	if err != nil {
		return nil, err
	}
	return r.page(ctx, pageRequest, pred)
}

func (r *baseRepositoryImpl[T]) page(ctx context.Context, pageRequest *types.PageRequest, pred specification.Predicate) (*types.Pagination[T], error) {
	if pageRequest == nil {
		pageRequest = types.NewDefaultPageRequest(types.DefaultPage, types.DefaultPageSize)
	}
	orders := make([]string, 0, len(pageRequest.GetOrders()))
	for _, order := range pageRequest.GetOrders() {
		field, err := r.resolver.ResolveField(order.Field)
		if err != nil {
			return nil, fmt.Errorf("invalid order %s: %w", order, err)
		}
		orders = append(orders, field.Column)
	}

	var entities []*T
	query := r.db.NewSelect().Model(&entities).ApplyQueryBuilder(apply(pred))
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	for i, order := range pageRequest.GetOrders() {
		if order.Desc {
			query = query.OrderExpr("? DESC", bun.Ident(orders[i]))
		} else {
			query = query.OrderExpr("? ASC", bun.Ident(orders[i]))
		}
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.SetTotal(total)
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) predicate(filters []specification.Filter) (specification.Predicate, error) {
	pred, err := r.translator.Combine(filters...)
	if err != nil {
		return nil, err
	}
	if pred != nil {
		r.logger.Debug("Translated filters", "table", r.table.Name, "predicate", pred.String())
	}
	return pred, nil
}

func apply(pred specification.Predicate) func(bun.QueryBuilder) bun.QueryBuilder {
	return func(q bun.QueryBuilder) bun.QueryBuilder {
		if pred == nil {
			return q
		}
		return pred.Apply(q)
	}
}

func (r *baseRepositoryImpl[T]) WithTx(tx bun.Tx) Repository[T] {
	clone := *r
	clone.db = tx
	return &clone
}

func (r *baseRepositoryImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository[T]) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, r.WithTx(tx))
	})
}
