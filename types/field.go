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

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Field bridges an integer storage column to an enumerated value and bridges
// that same value to/from the dotted textual form used by fixtures. A Field
// is bound to one Spec for its lifetime; every operation is a stateless
// mapping over that binding.
type Field[E comparable] struct {
	spec     *Spec[E]
	choices  []Choice
	nullable bool
}

// FieldOption customizes Field construction.
type FieldOption[E comparable] func(*Field[E])

// WithChoices supplies an explicit (value, label) list, replacing the derived
// one entirely. Used for translated or otherwise customized labels.
func WithChoices[E comparable](choices []Choice) FieldOption[E] {
	return func(f *Field[E]) {
		f.choices = make([]Choice, len(choices))
		copy(f.choices, choices)
	}
}

// WithNullable marks the column as nullable.
func WithNullable[E comparable]() FieldOption[E] {
	return func(f *Field[E]) { f.nullable = true }
}

// NewField binds a field adapter to spec. When no explicit choices are
// supplied the choice list is derived from the members in declaration order.
func NewField[E comparable](spec *Spec[E], opts ...FieldOption[E]) (*Field[E], error) {
	if spec == nil {
		return nil, fmt.Errorf("enum field: spec cannot be nil")
	}
	f := &Field[E]{spec: spec}
	for _, opt := range opts {
		opt(f)
	}
	if f.choices == nil {
		f.choices = spec.Choices()
	}
	return f, nil
}

// Spec returns the bound enum descriptor.
func (f *Field[E]) Spec() *Spec[E] { return f.spec }

// Nullable reports whether the column accepts NULL.
func (f *Field[E]) Nullable() bool { return f.nullable }

// Choices returns the effective (value, label) list.
func (f *Field[E]) Choices() []Choice {
	out := make([]Choice, len(f.choices))
	copy(out, f.choices)
	return out
}

// ToStorage converts a member into its integer column value. A nil input
// becomes SQL NULL.
func (f *Field[E]) ToStorage(v *E) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	value, err := f.spec.ValueOf(*v)
	if err != nil {
		return nil, err
	}
	return int64(value), nil
}

// ToStorageValue coerces looser inputs into the integer column value: a
// member, a pointer to one, a raw integer already matching a member, or the
// dotted fixture string. nil becomes SQL NULL.
func (f *Field[E]) ToStorageValue(v any) (driver.Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case E:
		return f.ToStorage(&x)
	case *E:
		return f.ToStorage(x)
	case string:
		member, err := f.DecodeFixture(x)
		if err != nil {
			return nil, err
		}
		return f.ToStorage(&member)
	default:
		value, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("enum field %s: %w", f.spec.Name(), err)
		}
		// only accept integers that map back to a member
		if _, err := f.spec.FromValue(value); err != nil {
			return nil, err
		}
		return int64(value), nil
	}
}

// FromStorage converts a raw column value back into a member. SQL NULL
// becomes nil; an integer with no matching member is a lookup failure.
func (f *Field[E]) FromStorage(raw any) (*E, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := toInt(raw)
	if err != nil {
		return nil, fmt.Errorf("enum field %s: %w", f.spec.Name(), err)
	}
	member, err := f.spec.FromValue(value)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// EncodeFixture renders a member as "<EnumName>.<MemberName>".
func (f *Field[E]) EncodeFixture(v E) (string, error) {
	name, err := f.spec.NameOf(v)
	if err != nil {
		return "", err
	}
	return f.spec.Name() + DottedSeparator + name, nil
}

// DecodeFixture parses "<EnumName>.<MemberName>" back into a member. The enum
// name must match the bound spec exactly.
func (f *Field[E]) DecodeFixture(s string) (E, error) {
	var zero E
	enumName, memberName, err := SplitDotted(s)
	if err != nil {
		return zero, err
	}
	if enumName != f.spec.Name() {
		return zero, fmt.Errorf("%w: got %s, field is bound to %s", ErrEnumMismatch, enumName, f.spec.Name())
	}
	return f.spec.FromName(memberName)
}

// toInt normalizes the integer shapes drivers hand back for an INTEGER
// column, including the decimal-text form some of them use.
func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return int(x), nil
	case uint64:
		return int(x), nil
	case float64:
		if x != float64(int(x)) {
			return 0, fmt.Errorf("value %v is not an integer", x)
		}
		return int(x), nil
	case []byte:
		n, err := strconv.Atoi(string(x))
		if err != nil {
			return 0, fmt.Errorf("value %q is not an integer", string(x))
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}
