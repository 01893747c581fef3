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

func TestQueryFilterComposition(t *testing.T) {
	var empty *QueryFilter
	a := NewQueryFilter("a = ?", 1)
	b := NewQueryFilter("b > ?", 2)

	assert.True(t, empty.IsEmpty())
	assert.True(t, NewQueryFilter("").IsEmpty())
	assert.Same(t, a, empty.And(a))
	assert.Same(t, a, a.Or(nil))
	assert.Nil(t, empty.Not())

	and := a.And(b)
	assert.Equal(t, "(a = ?) AND (b > ?)", and.Schema)
	assert.Equal(t, []interface{}{1, 2}, and.Args)

	or := a.Or(b).Not()
	assert.Equal(t, "NOT ((a = ?) OR (b > ?))", or.Schema)
	assert.Equal(t, []interface{}{1, 2}, or.Args)
	assert.Equal(t, []interface{}{1}, a.Args)
}

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, 10, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())
	assert.Nil(t, p.GetFilter())
	assert.Empty(t, p.GetOrders())

	p = NewPageRequestWithOrders(3, 25, []string{"name DESC"})
	assert.Equal(t, 50, p.GetOffset())
	assert.Equal(t, []string{"name DESC"}, p.GetOrders())

	page := NewDefaultPagination[struct{}](2, 5)
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Items)
}

func TestJsonColumns(t *testing.T) {
	var nilObj JsonObject
	v, err := nilObj.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = JsonObject{"k": "v"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"k":"v"}`, v)

	var obj JsonObject
	require.NoError(t, obj.Scan([]byte(`{"n":1}`)))
	assert.Equal(t, float64(1), obj["n"])
	require.NoError(t, obj.Scan(nil))
	assert.NotNil(t, obj)
	assert.Empty(t, obj)
	assert.Error(t, obj.Scan(42))

	var arr JsonArray
	require.NoError(t, arr.Scan(`[{"a":"b"}]`))
	require.Len(t, arr, 1)
	assert.Equal(t, "b", arr[0]["a"])
}
