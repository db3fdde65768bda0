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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnimalField(t *testing.T, opts ...FieldOption[animalType]) *Field[animalType] {
	t.Helper()
	f, err := NewField[animalType](animalSpec, opts...)
	require.NoError(t, err)
	return f
}

func TestNewFieldNilSpec(t *testing.T) {
	_, err := NewField[animalType](nil)
	assert.Error(t, err)
}

func TestFieldStorageRoundTrip(t *testing.T) {
	f := newAnimalField(t)

	for _, m := range animalSpec.Members() {
		member := m.Member
		raw, err := f.ToStorage(&member)
		require.NoError(t, err)
		assert.Equal(t, driver.Value(int64(m.Value)), raw)

		back, err := f.FromStorage(raw)
		require.NoError(t, err)
		require.NotNil(t, back)
		assert.Equal(t, member, *back)
	}
}

func TestFieldStorageNull(t *testing.T) {
	f := newAnimalField(t, WithNullable[animalType]())
	assert.True(t, f.Nullable())

	raw, err := f.ToStorage(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	back, err := f.FromStorage(nil)
	require.NoError(t, err)
	assert.Nil(t, back)
}

func TestFieldFromStorageUnknownValue(t *testing.T) {
	f := newAnimalField(t)

	_, err := f.FromStorage(int64(99))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownValue)
}

func TestFieldFromStorageDriverShapes(t *testing.T) {
	f := newAnimalField(t)

	// drivers disagree on the Go shape of an INTEGER column
	for _, raw := range []any{int64(2), int(2), int32(2), float64(2), []byte("2")} {
		back, err := f.FromStorage(raw)
		require.NoError(t, err, "raw %T", raw)
		require.NotNil(t, back)
		assert.Equal(t, animalDog, *back)
	}

	_, err := f.FromStorage("2")
	assert.Error(t, err)
	_, err = f.FromStorage(float64(2.5))
	assert.Error(t, err)
}

func TestFieldToStorageValue(t *testing.T) {
	f := newAnimalField(t)

	raw, err := f.ToStorageValue(animalCat)
	require.NoError(t, err)
	assert.Equal(t, driver.Value(int64(1)), raw)

	member := animalDog
	raw, err = f.ToStorageValue(&member)
	require.NoError(t, err)
	assert.Equal(t, driver.Value(int64(2)), raw)

	raw, err = f.ToStorageValue("AnimalType.Turtle")
	require.NoError(t, err)
	assert.Equal(t, driver.Value(int64(3)), raw)

	raw, err = f.ToStorageValue(int64(1))
	require.NoError(t, err)
	assert.Equal(t, driver.Value(int64(1)), raw)

	raw, err = f.ToStorageValue(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	_, err = f.ToStorageValue(int64(99))
	assert.ErrorIs(t, err, ErrUnknownValue)
}

func TestFieldFixtureRoundTrip(t *testing.T) {
	f := newAnimalField(t)

	s, err := f.EncodeFixture(animalCat)
	require.NoError(t, err)
	assert.Equal(t, "AnimalType.Cat", s)

	back, err := f.DecodeFixture(s)
	require.NoError(t, err)
	assert.Equal(t, animalCat, back)
}

func TestFieldDecodeFixtureFailures(t *testing.T) {
	f := newAnimalField(t)

	_, err := f.DecodeFixture("AnimalType.Snake")
	assert.ErrorIs(t, err, ErrUnknownMember)

	_, err = f.DecodeFixture("WrongType.Cat")
	assert.ErrorIs(t, err, ErrEnumMismatch)

	_, err = f.DecodeFixture("AnimalTypeCat")
	assert.ErrorIs(t, err, ErrMissingSeparator)
}

func TestFieldEncodeFixtureNonMember(t *testing.T) {
	f := newAnimalField(t)

	_, err := f.EncodeFixture(animalType(42))
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestFieldChoices(t *testing.T) {
	derived := newAnimalField(t)
	assert.Equal(t, []Choice{
		{Value: 1, Label: "Cat"},
		{Value: 2, Label: "Dog"},
		{Value: 3, Label: "Turtle"},
	}, derived.Choices())

	custom := []Choice{
		{Value: 1, Label: "Le chat"},
		{Value: 2, Label: "Le chien"},
		{Value: 3, Label: "La tortue"},
	}
	overridden := newAnimalField(t, WithChoices[animalType](custom))
	assert.Equal(t, custom, overridden.Choices())

	// the field holds its own copy
	custom[0].Label = "mutated"
	assert.Equal(t, "Le chat", overridden.Choices()[0].Label)
}
