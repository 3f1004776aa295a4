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
	"fmt"
)

var (
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrUnsupportedOperator  = errors.New("operation not supported")
	ErrEmptyFilterSet       = errors.New("at least one filter is required")
	ErrUnsupportedFieldType = errors.New("unsupported field type")
	ErrUnknownField         = errors.New("unknown field")
	ErrInvalidFilter        = errors.New("invalid filter")
)

// FilterError reports why a single filter could not be translated.
// It unwraps to one of the package sentinel errors.
type FilterError struct {
	Field    string
	Operator OperatorType
	Err      error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %s %s: %v", e.Field, e.Operator, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

func filterError(f Filter, err error) error {
	return &FilterError{Field: f.Field, Operator: f.Operator, Err: err}
}
