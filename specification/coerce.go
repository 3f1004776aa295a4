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
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomoncle/hummer-dao/types"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp parses RFC 3339 timestamps, "2006-01-02 15:04:05" and plain
// dates. The result is in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: expected timestamp but was %q", ErrTypeMismatch, raw)
}

// CastToRequiredType converts raw into the Go value matching the declared
// kind of field.
func CastToRequiredType(field Field, raw string) (any, error) {
	switch field.Kind {
	case KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, mismatch(field, raw)
		}
		return v, nil
	case KindInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, mismatch(field, raw)
		}
		return v, nil
	case KindEnum:
		if !types.EnumContains(enumMembers(field.EnumNames), raw) {
			return nil, mismatch(field, raw)
		}
		if field.EnumNumbers == nil {
			return raw, nil
		}
		n, ok := field.EnumNumbers[raw]
		if !ok {
			return nil, mismatch(field, raw)
		}
		return int64(n), nil
	case KindTimestamp:
		return ParseTimestamp(raw)
	case KindText:
		return raw, nil
	case KindBool:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, mismatch(field, raw)
		}
		return v, nil
	case KindUUID:
		v, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, mismatch(field, raw)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s has kind %s", ErrUnsupportedFieldType, field.Name, field.Kind)
}

// CastAll coerces every element of raws, keeping their order.
func CastAll(field Field, raws []string) ([]any, error) {
	values := make([]any, 0, len(raws))
	for _, raw := range raws {
		v, err := CastToRequiredType(field, raw)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func mismatch(field Field, raw string) error {
	return fmt.Errorf("%w: expected %s for %s but was %q", ErrTypeMismatch, field.Kind, field.Name, raw)
}
