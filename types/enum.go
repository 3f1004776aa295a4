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

package types

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// EnumType is implemented by entity field types that hold one of a fixed set
// of named members. Filters on such fields match members by exact name.
type EnumType interface {
	EnumNames() []string
}

// NumberedEnum is an EnumType stored as an integer column. EnumNumber maps a
// member name to its stored value.
type NumberedEnum interface {
	EnumType
	EnumNumber(name string) (int, bool)
}

// EnumContains reports whether name is one of the members of e.
func EnumContains(e EnumType, name string) bool {
	for _, n := range e.EnumNames() {
		if n == name {
			return true
		}
	}
	return false
}
