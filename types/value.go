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
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FixtureEncoder is implemented by column types that render themselves as a
// dotted enum reference in fixture documents.
type FixtureEncoder interface {
	EncodeFixture() (string, error)
}

// FixtureDecoder is implemented by column types that restore themselves from
// a dotted enum reference in fixture documents.
type FixtureDecoder interface {
	DecodeFixture(s string) error
}

// Value is an enum-backed integer column usable directly in Bun model
// structs. It stores the member's integer value, scans integers back into
// members, and serializes as the dotted "<EnumName>.<MemberName>" string in
// JSON and fixture documents. The zero Value is NULL.
//
// The enum's Spec must be registered via Register before the column is read,
// written, or serialized.
type Value[E comparable] struct {
	member E
	valid  bool
}

var (
	_ sql.Scanner    = (*Value[int])(nil)
	_ driver.Valuer  = Value[int]{}
	_ json.Marshaler = Value[int]{}
	_ FixtureEncoder = Value[int]{}
	_ FixtureDecoder = (*Value[int])(nil)
)

// NewValue wraps a member into a non-NULL column value.
func NewValue[E comparable](member E) Value[E] {
	return Value[E]{member: member, valid: true}
}

// Get returns the member and whether one is set.
func (v Value[E]) Get() (E, bool) { return v.member, v.valid }

// Must returns the member, panicking when the column is NULL.
func (v Value[E]) Must() E {
	if !v.valid {
		panic("enum value is null")
	}
	return v.member
}

// IsNull reports whether the column is NULL.
func (v Value[E]) IsNull() bool { return !v.valid }

// Set replaces the member and marks the column non-NULL.
func (v *Value[E]) Set(member E) {
	v.member = member
	v.valid = true
}

// SetNull clears the column.
func (v *Value[E]) SetNull() {
	var zero E
	v.member = zero
	v.valid = false
}

// Value implements driver.Valuer, producing the member's integer value or
// NULL.
func (v Value[E]) Value() (driver.Value, error) {
	if !v.valid {
		return nil, nil
	}
	spec, err := SpecFor[E]()
	if err != nil {
		return nil, err
	}
	value, err := spec.ValueOf(v.member)
	if err != nil {
		return nil, err
	}
	return int64(value), nil
}

// Scan implements sql.Scanner, restoring the member from the stored integer.
func (v *Value[E]) Scan(src any) error {
	if src == nil {
		v.SetNull()
		return nil
	}
	spec, err := SpecFor[E]()
	if err != nil {
		return err
	}
	value, err := toInt(src)
	if err != nil {
		return fmt.Errorf("enum column %s: %w", spec.Name(), err)
	}
	member, err := spec.FromValue(value)
	if err != nil {
		return err
	}
	v.Set(member)
	return nil
}

// EncodeFixture renders the dotted fixture form of the member.
func (v Value[E]) EncodeFixture() (string, error) {
	spec, err := SpecFor[E]()
	if err != nil {
		return "", err
	}
	name, err := spec.NameOf(v.member)
	if err != nil {
		return "", err
	}
	return spec.Name() + DottedSeparator + name, nil
}

// DecodeFixture restores the member from its dotted fixture form.
func (v *Value[E]) DecodeFixture(s string) error {
	spec, err := SpecFor[E]()
	if err != nil {
		return err
	}
	enumName, memberName, err := SplitDotted(s)
	if err != nil {
		return err
	}
	if enumName != spec.Name() {
		return fmt.Errorf("%w: got %s, column holds %s", ErrEnumMismatch, enumName, spec.Name())
	}
	member, err := spec.FromName(memberName)
	if err != nil {
		return err
	}
	v.Set(member)
	return nil
}

// String renders the dotted form, or "<null>" for NULL columns. Lookup
// failures render as "<invalid>".
func (v Value[E]) String() string {
	if !v.valid {
		return "<null>"
	}
	s, err := v.EncodeFixture()
	if err != nil {
		return "<invalid>"
	}
	return s
}

// MarshalJSON renders the dotted form, or null.
func (v Value[E]) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	s, err := v.EncodeFixture()
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// UnmarshalJSON restores from the dotted form or null.
func (v *Value[E]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.SetNull()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return v.DecodeFixture(s)
}

// MarshalYAML renders the dotted form for fixture documents, or nil.
func (v Value[E]) MarshalYAML() (any, error) {
	if !v.valid {
		return nil, nil
	}
	return v.EncodeFixture()
}

// UnmarshalYAML restores from the dotted form in fixture documents.
func (v *Value[E]) UnmarshalYAML(unmarshal func(any) error) error {
	var s *string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == nil {
		v.SetNull()
		return nil
	}
	return v.DecodeFixture(*s)
}
