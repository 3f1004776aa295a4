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

package specification

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testTranslator() *Translator {
	return NewTranslator(NewSchema(
		Field{Name: "price", Kind: KindFloat},
		Field{Name: "qty", Kind: KindInteger},
		Field{Name: "status", Kind: KindEnum, EnumNames: []string{"A", "B", "C"}},
		Field{Name: "createdAt", Kind: KindTimestamp},
		Field{Name: "name", Kind: KindText},
	))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"equals numeric", Equals("qty", "7"), "qty = 7"},
		{"not equals enum", NotEquals("status", "A"), `status <> "A"`},
		{"greater than", GreaterThan("price", "9.5"), "price > 9.5"},
		{"less than", LessThan("qty", "3"), "qty < 3"},
		{"greater or equal", GreaterThanOrEqualTo("qty", "10"), "(qty > 10 OR qty = 10)"},
		{"less or equal", LessThanOrEqualTo("price", "1.25"), "(price < 1.25 OR price = 1.25)"},
		{"after", After("createdAt", t0), "created_at > 2024-01-01T00:00:00Z"},
		{"after or equal", AfterOrEqual("createdAt", t0), "created_at >= 2024-01-01T00:00:00Z"},
		{"before", Before("createdAt", t0), "created_at < 2024-01-01T00:00:00Z"},
		{"before or equal", BeforeOrEqual("createdAt", t0), "created_at <= 2024-01-01T00:00:00Z"},
		{"between", Between("createdAt", t0, t0.Add(time.Hour)),
			"created_at BETWEEN 2024-01-01T00:00:00Z AND 2024-01-01T01:00:00Z"},
		{"in enum", In("status", "A", "B"), `status IN ("A", "B")`},
		{"in empty", In("status"), "status IN ()"},
		{"like", Like("name", "wid"), `name LIKE "%wid%"`},
		{"column lookup", Equals("created_at", "2024-01-01"), "created_at = 2024-01-01T00:00:00Z"},
	}
	tr := testTranslator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tr.Translate(tt.filter)
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   error
	}{
		{"unknown operator", Filter{Field: "qty", Operator: OperatorType(42), Value: strPtr("1")}, ErrUnsupportedOperator},
		{"unknown field", Equals("color", "red"), ErrUnknownField},
		{"missing field name", Equals("", "red"), ErrInvalidFilter},
		{"gte non numeric value", GreaterThanOrEqualTo("qty", "abc"), ErrTypeMismatch},
		{"lte on text field", LessThanOrEqualTo("name", "abc"), ErrTypeMismatch},
		{"gt on text field", GreaterThan("name", "abc"), ErrTypeMismatch},
		{"lt non numeric value", LessThan("price", "cheap"), ErrTypeMismatch},
		{"after non timestamp value", NewFilter("createdAt", OpAfter, "tomorrow"), ErrTypeMismatch},
		{"before on numeric field", Before("qty", t0), ErrTypeMismatch},
		{"equals bad enum", Equals("status", "Z"), ErrTypeMismatch},
		{"in bad element", In("qty", "1", "x"), ErrTypeMismatch},
		{"in without list", NewFilter("qty", OpIn, "1"), ErrTypeMismatch},
		{"between without bounds", NewFilter("createdAt", OpBetween, "2024-01-01"), ErrTypeMismatch},
		{"like without value", Filter{Field: "name", Operator: OpLike, Values: []string{"x"}}, ErrTypeMismatch},
	}
	tr := testTranslator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tr.Translate(tt.filter)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.want)

			var fe *FilterError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.filter.Field, fe.Field)
		})
	}
}

func TestTranslateUnsupportedFieldType(t *testing.T) {
	tr := NewTranslator(NewSchema(Field{Name: "meta", Kind: KindUnknown}))
	_, err := tr.Translate(Equals("meta", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)
}

func TestTranslateNoopFilter(t *testing.T) {
	p, err := testTranslator().Translate(Filter{Field: "qty", Operator: OpEquals})
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestTranslateRejectsUnknownOperatorWithoutValue(t *testing.T) {
	// Operator validity is checked before a missing value turns the filter into a no-op.
	p, err := testTranslator().Translate(Filter{Field: "qty", Operator: OperatorType(99)})
	assert.ErrorIs(t, err, ErrUnsupportedOperator)
	assert.Nil(t, p)
}

func TestCombine(t *testing.T) {
	tr := testTranslator()

	_, err := tr.Combine()
	assert.ErrorIs(t, err, ErrEmptyFilterSet)

	p, err := tr.Combine(Equals("status", "A"), After("createdAt", t0))
	require.NoError(t, err)
	assert.Equal(t, `status = "A" AND created_at > 2024-01-01T00:00:00Z`, p.String())

	p, err = tr.Combine(
		Equals("status", "A"),
		Filter{Field: "qty", Operator: OpEquals},
		GreaterThanOrEqualTo("qty", "2"),
	)
	require.NoError(t, err)
	assert.Equal(t, `status = "A" AND (qty > 2 OR qty = 2)`, p.String())

	p, err = tr.Combine(Filter{Field: "qty", Operator: OpEquals})
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = tr.Combine(Equals("status", "A"), Equals("qty", "x"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestAndFlattens(t *testing.T) {
	a := compare("a", "=", 1)
	b := compare("b", "=", 2)
	c := compare("c", "=", 3)
	assert.Nil(t, And())
	assert.Nil(t, And(nil, nil))
	assert.Equal(t, a, And(nil, a))
	assert.Equal(t, "a = 1 AND b = 2 AND c = 3", And(And(a, b), c).String())
}

func TestPredicateRendersSQL(t *testing.T) {
	db := newTestDB(t)
	p, err := testTranslator().Combine(Equals("status", "A"), GreaterThanOrEqualTo("qty", "10"))
	require.NoError(t, err)

	sql := db.NewSelect().
		TableExpr("orders").
		ColumnExpr("*").
		ApplyQueryBuilder(func(q bun.QueryBuilder) bun.QueryBuilder { return p.Apply(q) }).
		String()
	assert.Contains(t, sql, `"status" = 'A'`)
	assert.Contains(t, sql, `"qty" > 10`)
	assert.Contains(t, sql, ` OR `)
	assert.Contains(t, sql, `"qty" = 10`)
}

func TestTranslatorConcurrentUse(t *testing.T) {
	tr := testTranslator()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := tr.Combine(In("status", "A", "C"), LessThan("qty", "5"))
			assert.NoError(t, err)
			assert.Equal(t, `status IN ("A", "C") AND qty < 5`, p.String())
		}()
	}
	wg.Wait()
}

func strPtr(s string) *string { return &s }
