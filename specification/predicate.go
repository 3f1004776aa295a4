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
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Predicate is a composable boolean condition over entity columns. It is
// applied to any bun query that supports WHERE clauses.
type Predicate interface {
	// Apply ANDs the predicate onto q.
	Apply(q bun.QueryBuilder) bun.QueryBuilder
	String() string

	appendTo(q bun.QueryBuilder, or bool) bun.QueryBuilder
}

func where(q bun.QueryBuilder, or bool, query string, args ...any) bun.QueryBuilder {
	if or {
		return q.WhereOr(query, args...)
	}
	return q.Where(query, args...)
}

type comparison struct {
	column string
	op     string
	value  any
}

func compare(column, op string, value any) Predicate {
	return comparison{column: column, op: op, value: value}
}

func (c comparison) Apply(q bun.QueryBuilder) bun.QueryBuilder { return c.appendTo(q, false) }

func (c comparison) appendTo(q bun.QueryBuilder, or bool) bun.QueryBuilder {
	return where(q, or, "? "+c.op+" ?", bun.Ident(c.column), c.value)
}

func (c comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.column, c.op, formatValue(c.value))
}

type between struct {
	column string
	lo, hi any
}

func (b between) Apply(q bun.QueryBuilder) bun.QueryBuilder { return b.appendTo(q, false) }

func (b between) appendTo(q bun.QueryBuilder, or bool) bun.QueryBuilder {
	return where(q, or, "? BETWEEN ? AND ?", bun.Ident(b.column), b.lo, b.hi)
}

func (b between) String() string {
	return fmt.Sprintf("%s BETWEEN %s AND %s", b.column, formatValue(b.lo), formatValue(b.hi))
}

type inList struct {
	column string
	values []any
}

func (p inList) Apply(q bun.QueryBuilder) bun.QueryBuilder { return p.appendTo(q, false) }

func (p inList) appendTo(q bun.QueryBuilder, or bool) bun.QueryBuilder {
	if len(p.values) == 0 {
		return where(q, or, "1 = 0")
	}
	return where(q, or, "? IN (?)", bun.Ident(p.column), bun.In(p.values))
}

func (p inList) String() string {
	vals := make([]string, 0, len(p.values))
	for _, v := range p.values {
		vals = append(vals, formatValue(v))
	}
	return fmt.Sprintf("%s IN (%s)", p.column, strings.Join(vals, ", "))
}

type like struct {
	column  string
	pattern string
}

func (l like) Apply(q bun.QueryBuilder) bun.QueryBuilder { return l.appendTo(q, false) }

func (l like) appendTo(q bun.QueryBuilder, or bool) bun.QueryBuilder {
	return where(q, or, "? LIKE ?", bun.Ident(l.column), l.pattern)
}

func (l like) String() string {
	return fmt.Sprintf("%s LIKE %q", l.column, l.pattern)
}

// group joins its members with AND or OR.
type group struct {
	or      bool
	members []Predicate
}

func (g group) Apply(q bun.QueryBuilder) bun.QueryBuilder { return g.appendTo(q, false) }

func (g group) appendTo(q bun.QueryBuilder, or bool) bun.QueryBuilder {
	// A conjunction ANDed onto q needs no parentheses.
	if !g.or && !or {
		for _, m := range g.members {
			q = m.appendTo(q, false)
		}
		return q
	}
	sep := " AND "
	if or {
		sep = " OR "
	}
	return q.WhereGroup(sep, func(q bun.QueryBuilder) bun.QueryBuilder {
		for _, m := range g.members {
			q = m.appendTo(q, g.or)
		}
		return q
	})
}

func (g group) String() string {
	parts := make([]string, 0, len(g.members))
	for _, m := range g.members {
		parts = append(parts, m.String())
	}
	if g.or {
		return "(" + strings.Join(parts, " OR ") + ")"
	}
	return strings.Join(parts, " AND ")
}

// And returns the conjunction of preds, skipping nil members. It returns nil
// when no member is left.
func And(preds ...Predicate) Predicate {
	members := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		if g, ok := p.(group); ok && !g.or {
			members = append(members, g.members...)
			continue
		}
		members = append(members, p)
	}
	switch len(members) {
	case 0:
		return nil
	case 1:
		return members[0]
	}
	return group{members: members}
}

func anyOf(preds ...Predicate) Predicate {
	return group{or: true, members: preds}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case time.Time:
		return formatTimestamp(x)
	}
	return fmt.Sprint(v)
}
