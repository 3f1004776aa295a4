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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tomoncle/hummer-dao/database"
	"github.com/tomoncle/hummer-dao/specification"
	"github.com/tomoncle/hummer-dao/types"
)

type itemStatus string

func (itemStatus) EnumNames() []string { return []string{"ACTIVE", "CLOSED"} }

type item struct {
	bun.BaseModel `bun:"table:items"`

	ID        int64      `bun:"id,pk,autoincrement"`
	Name      string     `bun:"name,unique"`
	Price     float64    `bun:"price"`
	Qty       int        `bun:"qty"`
	Status    itemStatus `bun:"status"`
	CreatedAt time.Time  `bun:"created_at"`
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func newItemRepo(t *testing.T) Repository[item] {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*item)(nil)).Exec(context.Background())
	require.NoError(t, err)
	return NewRepository[item](db)
}

func seedItems(t *testing.T, repo Repository[item]) {
	t.Helper()
	err := repo.SaveAll(context.Background(),
		&item{Name: "apple", Price: 1.5, Qty: 5, Status: "ACTIVE", CreatedAt: day(1)},
		&item{Name: "banana", Price: 2, Qty: 10, Status: "ACTIVE", CreatedAt: day(2)},
		&item{Name: "cherry", Price: 3, Qty: 15, Status: "CLOSED", CreatedAt: day(3)},
		&item{Name: "date", Price: 4, Qty: 20, Status: "CLOSED", CreatedAt: day(4)},
	)
	require.NoError(t, err)
}

func names(items []*item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestSaveInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepo(t)

	saved, err := repo.Save(ctx, &item{Name: "kiwi", Qty: 1, Status: "ACTIVE", CreatedAt: day(1)})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	saved.Qty = 7
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, found.Qty)
	assert.True(t, found.CreatedAt.Equal(day(1)))

	_, err = repo.Save(ctx, nil)
	assert.Error(t, err)
}

func TestCrudOperations(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepo(t)
	seedItems(t, repo)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	exists, err := repo.ExistsByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteByID(ctx, all[0].ID))
	exists, err = repo.ExistsByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByID(ctx, all[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetQueryResult(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepo(t)
	seedItems(t, repo)

	tests := []struct {
		name    string
		filters []specification.Filter
		want    []string
	}{
		{"equals numeric", []specification.Filter{specification.Equals("price", "2")}, []string{"banana"}},
		{"equals text", []specification.Filter{specification.Equals("name", "cherry")}, []string{"cherry"}},
		{"not equals enum", []specification.Filter{specification.NotEquals("status", "ACTIVE")}, []string{"cherry", "date"}},
		{"in enum", []specification.Filter{specification.In("status", "ACTIVE")}, []string{"apple", "banana"}},
		{"in empty list", []specification.Filter{specification.In("status")}, []string{}},
		{"between inclusive", []specification.Filter{specification.Between("createdAt", day(2), day(3))}, []string{"banana", "cherry"}},
		{"greater or equal", []specification.Filter{specification.GreaterThanOrEqualTo("qty", "10")}, []string{"banana", "cherry", "date"}},
		{"less or equal", []specification.Filter{specification.LessThanOrEqualTo("price", "2")}, []string{"apple", "banana"}},
		{"greater than", []specification.Filter{specification.GreaterThan("qty", "15")}, []string{"date"}},
		{"less than", []specification.Filter{specification.LessThan("qty", "10")}, []string{"apple"}},
		{"after", []specification.Filter{specification.After("createdAt", day(2))}, []string{"cherry", "date"}},
		{"after or equal", []specification.Filter{specification.AfterOrEqual("created_at", day(2))}, []string{"banana", "cherry", "date"}},
		{"before", []specification.Filter{specification.Before("createdAt", day(2))}, []string{"apple"}},
		{"before or equal", []specification.Filter{specification.BeforeOrEqual("createdAt", day(2))}, []string{"apple", "banana"}},
		{"like", []specification.Filter{specification.Like("name", "an")}, []string{"banana"}},
		{"combined", []specification.Filter{
			specification.GreaterThanOrEqualTo("qty", "10"),
			specification.In("status", "CLOSED"),
		}, []string{"cherry", "date"}},
		{"enum equals and after", []specification.Filter{
			specification.Equals("status", "ACTIVE"),
			specification.After("createdAt", day(1)),
		}, []string{"banana"}},
		{"only noop filters", []specification.Filter{{Field: "qty", Operator: specification.OpEquals}},
			[]string{"apple", "banana", "cherry", "date"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetQueryResult(ctx, tt.filters...)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(got))

			n, err := repo.CountQueryResult(ctx, tt.filters...)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func TestGetQueryResultErrors(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepo(t)

	tests := []struct {
		name    string
		filters []specification.Filter
		want    error
	}{
		{"no filters", nil, specification.ErrEmptyFilterSet},
		{"text compared as number", []specification.Filter{specification.GreaterThan("name", "3")}, specification.ErrTypeMismatch},
		{"bad number", []specification.Filter{specification.Equals("qty", "many")}, specification.ErrTypeMismatch},
		{"after without timestamp", []specification.Filter{specification.NewFilter("createdAt", specification.OpAfter, "yesterday")}, specification.ErrTypeMismatch},
		{"gte without number", []specification.Filter{specification.GreaterThanOrEqualTo("qty", "abc")}, specification.ErrTypeMismatch},
		{"unknown enum member", []specification.Filter{specification.In("status", "LOST")}, specification.ErrTypeMismatch},
		{"unknown field", []specification.Filter{specification.Equals("colour", "red")}, specification.ErrUnknownField},
		{"bad operator", []specification.Filter{specification.NewFilter("qty", specification.OperatorType(99), "1")}, specification.ErrUnsupportedOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.GetQueryResult(ctx, tt.filters...)
			assert.ErrorIs(t, err, tt.want)

			_, err = repo.GetQueryResultPage(ctx, nil, tt.filters...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetQueryResultPage(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepo(t)
	seedItems(t, repo)

	filters := []specification.Filter{specification.GreaterThanOrEqualTo("qty", "5")}

	first, err := repo.GetQueryResultPage(ctx, types.NewPageRequest(1, 3, types.Desc("qty")), filters...)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Total)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, []string{"date", "cherry", "banana"}, names(first.Items))
	assert.True(t, first.HasNext())

	second, err := repo.GetQueryResultPage(ctx, types.NewPageRequest(2, 3, types.Desc("qty")), filters...)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, names(second.Items))
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())

	empty, err := repo.GetQueryResultPage(ctx, types.NewPageRequest(1, 3), specification.GreaterThan("qty", "100"))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Items)

	_, err = repo.GetQueryResultPage(ctx, types.NewPageRequest(1, 3, types.Asc("colour")), filters...)
	assert.ErrorIs(t, err, specification.ErrUnknownField)
}

func TestFindPage(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepo(t)
	seedItems(t, repo)

	page, err := repo.FindPage(ctx, types.NewPageRequest(2, 2, types.Asc("createdAt")))
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, []string{"cherry", "date"}, names(page.Items))

	page, err = repo.FindPage(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPageSize, page.PageSize)
	assert.Len(t, page.Items, 4)
}

func TestRunInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepo(t)
	boom := errors.New("boom")

	err := repo.RunInTx(ctx, func(ctx context.Context, tx Repository[item]) error {
		if _, err := tx.Save(ctx, &item{Name: "ghost", Status: "ACTIVE", CreatedAt: day(1)}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newItemRepo(t)
	seedItems(t, repo)

	err := repo.SaveAll(ctx,
		&item{Name: "fig", Status: "ACTIVE", CreatedAt: day(5)},
		&item{Name: "apple", Status: "ACTIVE", CreatedAt: day(6)},
	)
	require.Error(t, err)
	assert.True(t, database.IsDuplicateKey(err))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCustomResolver(t *testing.T) {
	ctx := context.Background()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*item)(nil)).Exec(ctx)
	require.NoError(t, err)

	fields := specification.NewSchema(specification.Field{Name: "amount", Column: "qty", Kind: specification.KindInteger})
	repo := NewRepository[item](db, WithResolver(fields))
	seedItems(t, repo)

	got, err := repo.GetQueryResult(ctx, specification.LessThan("amount", "10"))
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, names(got))
	assert.Same(t, fields, repo.Resolver())
}

type sensorLevel int

const (
	levelLow sensorLevel = iota
	levelHigh
)

func (sensorLevel) EnumNames() []string { return []string{"LOW", "HIGH"} }

func (sensorLevel) EnumNumber(name string) (int, bool) {
	switch name {
	case "LOW":
		return int(levelLow), true
	case "HIGH":
		return int(levelHigh), true
	}
	return 0, false
}

type sensorGrade int

func (sensorGrade) EnumNames() []string { return []string{"A", "B"} }

type sensor struct {
	bun.BaseModel `bun:"table:sensors"`

	ID    int64       `bun:"id,pk,autoincrement"`
	Name  string      `bun:"name"`
	Level sensorLevel `bun:"level"`
	Grade sensorGrade `bun:"grade"`
}

func TestIntegerBackedEnums(t *testing.T) {
	ctx := context.Background()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*sensor)(nil)).Exec(ctx)
	require.NoError(t, err)
	repo := NewRepository[sensor](db)
	require.NoError(t, repo.SaveAll(ctx,
		&sensor{Name: "s1", Level: levelLow, Grade: 0},
		&sensor{Name: "s2", Level: levelHigh, Grade: 1},
	))

	got, err := repo.GetQueryResult(ctx, specification.Equals("level", "HIGH"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].Name)

	got, err = repo.GetQueryResult(ctx, specification.In("level", "LOW", "HIGH"))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.GetQueryResult(ctx, specification.NotEquals("level", "HIGH"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].Name)

	// Without EnumNumber the stored value is unknown, so filtering must fail.
	_, err = repo.GetQueryResult(ctx, specification.Equals("grade", "B"))
	assert.ErrorIs(t, err, specification.ErrUnsupportedFieldType)
}
