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

	"github.com/tomoncle/hummer-dao/types"
)

// OperatorType enumerates the comparisons a Filter can express.
type OperatorType int

const (
	OpAfter OperatorType = iota + 1
	OpAfterOrEqual
	OpBefore
	OpBeforeOrEqual
	OpBetween
	OpEquals
	OpNotEquals
	OpGreaterThan
	OpLessThan
	OpGreaterThanOrEqualTo
	OpLessThanOrEqualTo
	OpIn
	OpLike
)

var _ types.BaseEnum = OperatorType(0)

var operatorNames = map[OperatorType]string{
	OpAfter:                "AFTER",
	OpAfterOrEqual:         "AFTER_OR_EQUAL",
	OpBefore:               "BEFORE",
	OpBeforeOrEqual:        "BEFORE_OR_EQUAL",
	OpBetween:              "BETWEEN",
	OpEquals:               "EQUALS",
	OpNotEquals:            "NOT_EQUALS",
	OpGreaterThan:          "GREATER_THAN",
	OpLessThan:             "LESS_THAN",
	OpGreaterThanOrEqualTo: "GREATER_THAN_OR_EQUAL_TO",
	OpLessThanOrEqualTo:    "LESS_THAN_OR_EQUAL_TO",
	OpIn:                   "IN",
	OpLike:                 "LIKE",
}

var operatorDescs = map[OperatorType]string{
	OpAfter:                "timestamp strictly after value",
	OpAfterOrEqual:         "timestamp at or after value",
	OpBefore:               "timestamp strictly before value",
	OpBeforeOrEqual:        "timestamp at or before value",
	OpBetween:              "timestamp within inclusive bounds",
	OpEquals:               "equal to value",
	OpNotEquals:            "not equal to value",
	OpGreaterThan:          "number greater than value",
	OpLessThan:             "number less than value",
	OpGreaterThanOrEqualTo: "number greater than or equal to value",
	OpLessThanOrEqualTo:    "number less than or equal to value",
	OpIn:                   "one of the listed values",
	OpLike:                 "contains value",
}

// Operators returns every supported operator in declaration order.
func Operators() []OperatorType {
	ops := make([]OperatorType, 0, len(operatorNames))
	for op := OpAfter; op <= OpLike; op++ {
		ops = append(ops, op)
	}
	return ops
}

// ParseOperator returns the operator with the given name.
func ParseOperator(name string) (OperatorType, error) {
	for op, n := range operatorNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperator, name)
}

func (o OperatorType) IsValid() bool {
	_, ok := operatorNames[o]
	return ok
}

func (o OperatorType) Number() int {
	if !o.IsValid() {
		return types.IllegalValue
	}
	return int(o)
}

func (o OperatorType) Name() string {
	if n, ok := operatorNames[o]; ok {
		return n
	}
	return types.IllegalName
}

func (o OperatorType) String() string {
	return o.Name()
}

func (o OperatorType) Desc() string {
	if d, ok := operatorDescs[o]; ok {
		return d
	}
	return types.IllegalDesc
}

// isTemporal reports whether the operator only applies to timestamp fields.
func (o OperatorType) isTemporal() bool {
	switch o {
	case OpAfter, OpAfterOrEqual, OpBefore, OpBeforeOrEqual:
		return true
	}
	return false
}

// isOrdering reports whether the operator only applies to numeric fields.
func (o OperatorType) isOrdering() bool {
	switch o {
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqualTo, OpLessThanOrEqualTo:
		return true
	}
	return false
}

func (o OperatorType) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedOperator, int(o))
	}
	return []byte(o.Name()), nil
}

func (o *OperatorType) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
