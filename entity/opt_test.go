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

package entity

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptAccessors(t *testing.T) {
	o := None[int]()
	v, ok := o.Get()
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.True(t, o.IsZero())
	assert.Equal(t, 7, o.OrElse(7))

	o.Put(3)
	assert.Equal(t, 3, o.OrElse(7))
	assert.Equal(t, 3, o.Any())

	o.Unset()
	assert.Nil(t, o.Any())
}

func TestOptValue(t *testing.T) {
	v, err := None[string]().Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Some("x").Value()
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = Some(decimal.RequireFromString("12.50")).Value()
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)
}

func TestOptScan(t *testing.T) {
	var n Opt[int]
	require.NoError(t, n.Scan(int64(42)))
	assert.Equal(t, Some(42), n)

	require.NoError(t, n.Scan(nil))
	assert.False(t, n.IsSet())

	var d Opt[decimal.Decimal]
	require.NoError(t, d.Scan("3.25"))
	assert.True(t, d.V.Equal(decimal.RequireFromString("3.25")))

	var s Opt[string]
	require.NoError(t, s.Scan([]byte("bytes")))
	assert.Equal(t, Some("bytes"), s)
}

func TestOptScanTime(t *testing.T) {
	want := time.Date(2025, 3, 1, 8, 30, 0, 5000, time.UTC)

	var ts Opt[time.Time]
	require.NoError(t, ts.Scan(want))
	assert.True(t, want.Equal(ts.V))

	for _, text := range []string{
		"2025-03-01 08:30:00.000005+00:00",
		"2025-03-01T08:30:00.000005Z",
		"2025-03-01 08:30:00.000005",
	} {
		var o Opt[time.Time]
		require.NoError(t, o.Scan(text), text)
		assert.True(t, want.Equal(o.V), text)
	}

	var bad Opt[time.Time]
	assert.Error(t, bad.Scan("yesterday"))
	assert.Error(t, bad.Scan(12))
}

func TestOptJSON(t *testing.T) {
	type payload struct {
		Name Opt[string] `json:"name"`
		Age  Opt[int]    `json:"age"`
	}
	b, err := json.Marshal(payload{Name: Some("alice")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"alice","age":null}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"name":null,"age":5}`), &p))
	assert.False(t, p.Name.IsSet())
	assert.Equal(t, Some(5), p.Age)
}
