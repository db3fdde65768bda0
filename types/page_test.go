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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, 10, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	p = NewDefaultPageRequest(3, 25)
	assert.Equal(t, 50, p.GetOffset())
}

func TestPageRequestNext(t *testing.T) {
	filter := NewQueryFilter("kind = ?", 1)
	p := NewPageRequest(2, 20, filter, []string{"id ASC"})

	next := p.Next()
	assert.Equal(t, 3, next.GetPage())
	assert.Equal(t, 20, next.GetPageSize())
	assert.Same(t, filter, next.GetFilter())
	assert.Equal(t, []string{"id ASC"}, next.GetOrders())
}

func TestPaginationHasMore(t *testing.T) {
	p := NewDefaultPagination[int](1, 10)
	p.Total = 25
	assert.True(t, p.HasMore())

	p.Page = 3
	assert.False(t, p.HasMore())
}

func TestJSONColumns(t *testing.T) {
	m := JSONMap{"name": "Felix", "age": float64(3)}
	raw, err := m.Value()
	require.NoError(t, err)

	var back JSONMap
	require.NoError(t, back.Scan(raw))
	assert.Equal(t, m, back)

	// text form from drivers without a byte type
	var fromText JSONMap
	require.NoError(t, fromText.Scan(`{"a":1}`))
	assert.Equal(t, float64(1), fromText["a"])

	var fromNil JSONMap
	require.NoError(t, fromNil.Scan(nil))
	assert.NotNil(t, fromNil)
	assert.Empty(t, fromNil)

	l := JSONList{{"id": float64(1)}, {"id": float64(2)}}
	rawL, err := l.Value()
	require.NoError(t, err)

	var backL JSONList
	require.NoError(t, backL.Scan(rawL))
	assert.Equal(t, l, backL)

	assert.Error(t, back.Scan(42))
}
