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

package fixture

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/tomoncle/enumfield/types"

	"github.com/uptrace/bun"
)

var (
	baseModelType = reflect.TypeOf(bun.BaseModel{})
	timeType      = reflect.TypeOf(time.Time{})
)

type nullable interface {
	IsNull() bool
}

// TableName extracts the table name from a model's bun.BaseModel tag,
// falling back to the snake_cased struct name.
func TableName(model interface{}) string {
	t := reflect.Indirect(reflect.ValueOf(model)).Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type != baseModelType {
			continue
		}
		for _, part := range strings.Split(f.Tag.Get("bun"), ",") {
			if strings.HasPrefix(part, "table:") {
				return strings.TrimPrefix(part, "table:")
			}
		}
	}
	return underscore(t.Name())
}

func columnName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("bun")
	if tag == "-" {
		return "", false
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		name = underscore(f.Name)
	}
	return name, true
}

// EncodeModel converts one model struct into a fixture row. Columns
// implementing types.FixtureEncoder render as their dotted enum string;
// times render as RFC 3339 text so the row survives the YAML round trip.
func EncodeModel(model interface{}) (Row, error) {
	rv := reflect.Indirect(reflect.ValueOf(model))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fixture encode source must be a struct, got %T", model)
	}
	t := rv.Type()
	row := make(Row, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == baseModelType || !f.IsExported() {
			continue
		}
		col, ok := columnName(f)
		if !ok {
			continue
		}
		val, err := encodeValue(rv.Field(i))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		row[col] = val
	}
	return row, nil
}

func encodeValue(fv reflect.Value) (interface{}, error) {
	// a typed-nil pointer still satisfies the encoder interfaces, so the
	// nil check must come before the probes
	if fv.Kind() == reflect.Ptr && fv.IsNil() {
		return nil, nil
	}

	if enc, ok := encoderOf(fv); ok {
		if n, isNullable := fv.Interface().(nullable); isNullable && n.IsNull() {
			return nil, nil
		}
		return enc.EncodeFixture()
	}

	switch fv.Kind() {
	case reflect.Ptr:
		return encodeValue(fv.Elem())
	}

	if fv.Type() == timeType {
		ts := fv.Interface().(time.Time)
		if ts.IsZero() {
			return nil, nil
		}
		return ts.Format(time.RFC3339Nano), nil
	}

	return fv.Interface(), nil
}

func encoderOf(fv reflect.Value) (types.FixtureEncoder, bool) {
	if enc, ok := fv.Interface().(types.FixtureEncoder); ok {
		return enc, true
	}
	if fv.CanAddr() {
		if enc, ok := fv.Addr().Interface().(types.FixtureEncoder); ok {
			return enc, true
		}
	}
	return nil, false
}

// DecodeModel populates a model struct from one fixture row. Unknown row
// keys are an error: a fixture naming a column the model does not have is
// treated the same as a bad enum reference, a fatal load failure.
func DecodeModel(row Row, model interface{}) error {
	rv := reflect.ValueOf(model)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("fixture decode target must be a non-nil pointer, got %T", model)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("fixture decode target must point to a struct, got %T", model)
	}

	t := rv.Type()
	seen := make(map[string]bool, len(row))
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == baseModelType || !f.IsExported() {
			continue
		}
		col, ok := columnName(f)
		if !ok {
			continue
		}
		raw, present := row[col]
		if !present {
			continue
		}
		seen[col] = true
		if err := decodeValue(rv.Field(i), raw); err != nil {
			return fmt.Errorf("column %s: %w", col, err)
		}
	}

	for col := range row {
		if !seen[col] {
			return fmt.Errorf("unknown column %q in fixture row for %s", col, t.Name())
		}
	}
	return nil
}

func decodeValue(fv reflect.Value, raw interface{}) error {
	if fv.CanAddr() {
		if dec, ok := fv.Addr().Interface().(types.FixtureDecoder); ok {
			if raw == nil {
				return nil
			}
			s, isString := raw.(string)
			if !isString {
				return fmt.Errorf("enum column expects a dotted string, got %T", raw)
			}
			return dec.DecodeFixture(s)
		}
	}

	if raw == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	if fv.Kind() == reflect.Ptr {
		p := reflect.New(fv.Type().Elem())
		if err := decodeValue(p.Elem(), raw); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}

	if fv.Type() == timeType {
		switch x := raw.(type) {
		case time.Time:
			fv.Set(reflect.ValueOf(x))
			return nil
		case string:
			ts, err := time.Parse(time.RFC3339Nano, x)
			if err != nil {
				ts, err = time.Parse("2006-01-02 15:04:05", x)
			}
			if err != nil {
				return fmt.Errorf("cannot parse time %q", x)
			}
			fv.Set(reflect.ValueOf(ts))
			return nil
		default:
			return fmt.Errorf("cannot assign %T to time.Time", raw)
		}
	}

	rvRaw := reflect.ValueOf(raw)
	if rvRaw.Type().AssignableTo(fv.Type()) {
		fv.Set(rvRaw)
		return nil
	}
	if isNumericKind(rvRaw.Kind()) && isNumericKind(fv.Kind()) {
		fv.Set(rvRaw.Convert(fv.Type()))
		return nil
	}
	if rvRaw.Type().ConvertibleTo(fv.Type()) && rvRaw.Kind() == fv.Kind() {
		fv.Set(rvRaw.Convert(fv.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", raw, fv.Type())
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func underscore(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
