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
)

// Translator turns filters into predicates. It holds no mutable state and is
// safe for concurrent use.
type Translator struct {
	resolver TypeResolver
}

// NewTranslator returns a Translator that looks up field kinds in resolver.
func NewTranslator(resolver TypeResolver) *Translator {
	return &Translator{resolver: resolver}
}

var comparisonOps = map[OperatorType]string{
	OpAfter:                ">",
	OpAfterOrEqual:         ">=",
	OpBefore:               "<",
	OpBeforeOrEqual:        "<=",
	OpEquals:               "=",
	OpNotEquals:            "<>",
	OpGreaterThan:          ">",
	OpLessThan:             "<",
	OpGreaterThanOrEqualTo: ">",
	OpLessThanOrEqualTo:    "<",
}

// Translate returns the predicate for a single filter. A filter without any
// value yields a nil predicate and a nil error.
func (t *Translator) Translate(f Filter) (Predicate, error) {
	if !f.Operator.IsValid() {
		return nil, filterError(f, ErrUnsupportedOperator)
	}
	if f.IsNoop() {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, filterError(f, err)
	}
	field, err := t.resolver.ResolveField(f.Field)
	if err != nil {
		return nil, filterError(f, err)
	}

	switch {
	case f.Operator.isTemporal():
		v, err := temporalValue(field, f)
		if err != nil {
			return nil, filterError(f, err)
		}
		return compare(field.Column, comparisonOps[f.Operator], v), nil

	case f.Operator == OpBetween:
		if f.Between == nil {
			return nil, filterError(f, fmt.Errorf("%w: BETWEEN requires a pair of bounds", ErrTypeMismatch))
		}
		return between{column: field.Column, lo: f.Between[0].UTC(), hi: f.Between[1].UTC()}, nil

	case f.Operator == OpEquals || f.Operator == OpNotEquals:
		v, err := singleValue(field, f)
		if err != nil {
			return nil, filterError(f, err)
		}
		return compare(field.Column, comparisonOps[f.Operator], v), nil

	case f.Operator.isOrdering():
		v, err := numericValue(field, f)
		if err != nil {
			return nil, filterError(f, err)
		}
		p := compare(field.Column, comparisonOps[f.Operator], v)
		if f.Operator == OpGreaterThanOrEqualTo || f.Operator == OpLessThanOrEqualTo {
			p = anyOf(p, compare(field.Column, "=", v))
		}
		return p, nil

	case f.Operator == OpLike:
		if f.Value == nil {
			return nil, filterError(f, fmt.Errorf("%w: LIKE requires a single value", ErrTypeMismatch))
		}
		return like{column: field.Column, pattern: "%" + *f.Value + "%"}, nil

	case f.Operator == OpIn:
		if f.Values == nil {
			return nil, filterError(f, fmt.Errorf("%w: IN requires a list of values", ErrTypeMismatch))
		}
		values, err := CastAll(field, f.Values)
		if err != nil {
			return nil, filterError(f, err)
		}
		return inList{column: field.Column, values: values}, nil
	}
	return nil, filterError(f, ErrUnsupportedOperator)
}

// Combine ANDs the predicates of filters from left to right. Filters without
// values are skipped; if none is left the result is nil, meaning no
// restriction.
func (t *Translator) Combine(filters ...Filter) (Predicate, error) {
	if len(filters) == 0 {
		return nil, ErrEmptyFilterSet
	}
	var combined Predicate
	for _, f := range filters {
		p, err := t.Translate(f)
		if err != nil {
			return nil, err
		}
		combined = And(combined, p)
	}
	return combined, nil
}

func singleValue(field Field, f Filter) (any, error) {
	if f.Value == nil {
		return nil, fmt.Errorf("%w: %s requires a single value", ErrTypeMismatch, f.Operator)
	}
	return CastToRequiredType(field, *f.Value)
}

func temporalValue(field Field, f Filter) (any, error) {
	if f.Value == nil {
		return nil, fmt.Errorf("%w: %s requires a single value", ErrTypeMismatch, f.Operator)
	}
	if field.Kind != KindTimestamp {
		return nil, fmt.Errorf("%w: %s requires a timestamp field but %s is %s",
			ErrTypeMismatch, f.Operator, field.Name, field.Kind)
	}
	return ParseTimestamp(*f.Value)
}

func numericValue(field Field, f Filter) (any, error) {
	if f.Value == nil {
		return nil, fmt.Errorf("%w: %s requires a single value", ErrTypeMismatch, f.Operator)
	}
	if !field.Kind.IsNumeric() {
		return nil, fmt.Errorf("%w: %s requires a numeric field but %s is %s",
			ErrTypeMismatch, f.Operator, field.Name, field.Kind)
	}
	return CastToRequiredType(field, *f.Value)
}
