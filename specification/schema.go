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
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"github.com/uptrace/bun/schema"
	"gopkg.in/yaml.v3"

	"github.com/tomoncle/hummer-dao/types"
)

// FieldKind is the declared value kind of an entity field.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindFloat
	KindInteger
	KindEnum
	KindTimestamp
	KindText
	KindBool
	KindUUID
)

var kindNames = map[FieldKind]string{
	KindUnknown:   "unknown",
	KindFloat:     "float",
	KindInteger:   "integer",
	KindEnum:      "enum",
	KindTimestamp: "timestamp",
	KindText:      "text",
	KindBool:      "bool",
	KindUUID:      "uuid",
}

func (k FieldKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return kindNames[KindUnknown]
}

func (k FieldKind) IsNumeric() bool {
	return k == KindFloat || k == KindInteger
}

func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FieldKind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for kind, name := range kindNames {
		if name == s && kind != KindUnknown {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFieldType, s)
}

// Field describes one filterable entity field.
type Field struct {
	// Name is the logical name used in filters, e.g. "createdAt".
	Name string `yaml:"name"`
	// Column is the SQL column, e.g. "created_at".
	Column    string    `yaml:"column"`
	Kind      FieldKind `yaml:"kind"`
	EnumNames []string  `yaml:"enum"`
	// EnumNumbers holds the stored value of each member of an integer-backed
	// enum. Nil means members are stored by name.
	EnumNumbers map[string]int `yaml:"numbers,omitempty"`
}

// enumMembers adapts a field's enum names to types.EnumType.
type enumMembers []string

func (m enumMembers) EnumNames() []string { return m }

// TypeResolver returns the declared field for a logical field name.
type TypeResolver interface {
	ResolveField(name string) (Field, error)
}

// Schema is an explicit TypeResolver built from a list of fields. Lookups
// accept either the logical name or the column name.
type Schema struct {
	fields   []Field
	byName   map[string]int
	byColumn map[string]int
}

var _ TypeResolver = (*Schema)(nil)

// NewSchema builds a Schema. A field without a Column uses the snake_case
// form of its Name.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{}
	for _, f := range fields {
		s.add(f)
	}
	return s
}

func (s *Schema) add(f Field) {
	if s.byName == nil {
		s.byName = make(map[string]int)
		s.byColumn = make(map[string]int)
	}
	if f.Column == "" {
		f.Column = strcase.ToSnake(f.Name)
	}
	if f.Name == "" {
		f.Name = strcase.ToLowerCamel(f.Column)
	}
	s.fields = append(s.fields, f)
	s.byName[f.Name] = len(s.fields) - 1
	s.byColumn[f.Column] = len(s.fields) - 1
}

func (s *Schema) ResolveField(name string) (Field, error) {
	if i, ok := s.byName[name]; ok {
		return s.fields[i], nil
	}
	if i, ok := s.byColumn[name]; ok {
		return s.fields[i], nil
	}
	return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Fields returns the fields in registration order.
func (s *Schema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

type schemaFile struct {
	Fields []Field `yaml:"fields"`
}

func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var file schemaFile
	if err := node.Decode(&file); err != nil {
		return err
	}
	*s = Schema{}
	for _, f := range file.Fields {
		if f.Kind == KindUnknown {
			return fmt.Errorf("field %q: %w", f.Name, ErrUnsupportedFieldType)
		}
		s.add(f)
	}
	return nil
}

// ParseSchemaYAML decodes a schema document of the form
//
//	fields:
//	  - name: createdAt
//	    column: created_at
//	    kind: timestamp
func ParseSchemaYAML(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return s, nil
}

var (
	timeType         = reflect.TypeOf(time.Time{})
	uuidType         = reflect.TypeOf(uuid.UUID{})
	enumTypeType     = reflect.TypeOf((*types.EnumType)(nil)).Elem()
	numberedEnumType = reflect.TypeOf((*types.NumberedEnum)(nil)).Elem()
)

// SchemaFromTable derives a Schema from bun table metadata. Logical names are
// the lowerCamel Go field names.
func SchemaFromTable(table *schema.Table) *Schema {
	s := &Schema{}
	for _, f := range table.Fields {
		s.add(Field{
			Name:        strcase.ToLowerCamel(f.GoName),
			Column:      f.Name,
			Kind:        kindOf(f.IndirectType),
			EnumNames:   enumNamesOf(f.IndirectType),
			EnumNumbers: enumNumbersOf(f.IndirectType),
		})
	}
	return s
}

func kindOf(t reflect.Type) FieldKind {
	switch {
	case implements(t, enumTypeType):
		// An integer column cannot be matched by member name.
		if t.Kind() == reflect.String || implements(t, numberedEnumType) {
			return KindEnum
		}
		return KindUnknown
	case t == timeType:
		return KindTimestamp
	case t == uuidType:
		return KindUUID
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindText
	}
	return KindUnknown
}

func enumNamesOf(t reflect.Type) []string {
	if kindOf(t) != KindEnum {
		return nil
	}
	e, ok := reflect.New(t).Interface().(types.EnumType)
	if !ok {
		return nil
	}
	return e.EnumNames()
}

func enumNumbersOf(t reflect.Type) map[string]int {
	if kindOf(t) != KindEnum {
		return nil
	}
	e, ok := reflect.New(t).Interface().(types.NumberedEnum)
	if !ok {
		return nil
	}
	numbers := make(map[string]int)
	for _, name := range e.EnumNames() {
		if n, ok := e.EnumNumber(name); ok {
			numbers[name] = n
		}
	}
	return numbers
}

func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}
