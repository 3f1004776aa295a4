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
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("operator", func(fl validator.FieldLevel) bool {
		op, ok := fl.Field().Interface().(OperatorType)
		return ok && op.IsValid()
	})

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("operator", trans, func(ut ut.Translator) error {
		return ut.Add("operator", "{0} must be a supported operator", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("operator", fe.Field())
		return t
	})
}

// Filter is a single field/operator/value unit of a query. Exactly one of
// Value, Values and Between is set, depending on Operator.
type Filter struct {
	Field    string        `json:"field" yaml:"field" validate:"required"`
	Operator OperatorType  `json:"operator" yaml:"operator" validate:"operator"`
	Value    *string       `json:"value,omitempty" yaml:"value,omitempty"`
	Values   []string      `json:"values,omitempty" yaml:"values,omitempty"`
	Between  *[2]time.Time `json:"between,omitempty" yaml:"between,omitempty"`
}

// NewFilter builds a single-valued filter for any operator.
func NewFilter(field string, op OperatorType, value string) Filter {
	return Filter{Field: field, Operator: op, Value: &value}
}

func Equals(field, value string) Filter { return NewFilter(field, OpEquals, value) }

func NotEquals(field, value string) Filter { return NewFilter(field, OpNotEquals, value) }

func GreaterThan(field, value string) Filter { return NewFilter(field, OpGreaterThan, value) }

func LessThan(field, value string) Filter { return NewFilter(field, OpLessThan, value) }

func GreaterThanOrEqualTo(field, value string) Filter {
	return NewFilter(field, OpGreaterThanOrEqualTo, value)
}

func LessThanOrEqualTo(field, value string) Filter {
	return NewFilter(field, OpLessThanOrEqualTo, value)
}

func Like(field, value string) Filter { return NewFilter(field, OpLike, value) }

func After(field string, t time.Time) Filter { return NewFilter(field, OpAfter, formatTimestamp(t)) }

func AfterOrEqual(field string, t time.Time) Filter {
	return NewFilter(field, OpAfterOrEqual, formatTimestamp(t))
}

func Before(field string, t time.Time) Filter { return NewFilter(field, OpBefore, formatTimestamp(t)) }

func BeforeOrEqual(field string, t time.Time) Filter {
	return NewFilter(field, OpBeforeOrEqual, formatTimestamp(t))
}

// Between matches timestamps in the inclusive range [lo, hi].
func Between(field string, lo, hi time.Time) Filter {
	return Filter{Field: field, Operator: OpBetween, Between: &[2]time.Time{lo, hi}}
}

// In matches any of values. The slice is copied.
func In(field string, values ...string) Filter {
	vs := make([]string, len(values))
	copy(vs, values)
	return Filter{Field: field, Operator: OpIn, Values: vs}
}

// IsNoop reports whether the filter carries no value at all. Such filters
// are skipped when filters are combined.
func (f Filter) IsNoop() bool {
	return f.Value == nil && f.Values == nil && f.Between == nil
}

// Validate checks the structural shape of the filter.
func (f Filter) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return fmt.Errorf("%w: %s", ErrInvalidFilter, strings.Join(msgs, "; "))
}

func (f Filter) String() string {
	switch {
	case f.Value != nil:
		return fmt.Sprintf("%s %s %q", f.Field, f.Operator, *f.Value)
	case f.Values != nil:
		return fmt.Sprintf("%s %s %q", f.Field, f.Operator, f.Values)
	case f.Between != nil:
		return fmt.Sprintf("%s %s [%s, %s]", f.Field, f.Operator,
			formatTimestamp(f.Between[0]), formatTimestamp(f.Between[1]))
	}
	return fmt.Sprintf("%s %s <none>", f.Field, f.Operator)
}
