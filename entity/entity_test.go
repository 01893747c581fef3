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

	"github.com/juju/clock/testclock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type account struct {
	bun.BaseModel `bun:"table:accounts"`
	Base
	Name    Opt[string]          `bun:"name,type:varchar(255)"`
	Age     Opt[int]             `bun:"age"`
	Balance Opt[decimal.Decimal] `bun:"balance,type:decimal(20,4)"`
}

func (a *account) Fields() []Field {
	return append(a.Base.Fields(),
		Bind("name", &a.Name),
		Bind("age", &a.Age),
		Bind("balance", &a.Balance),
	)
}

// ledger declares "age" with a different type than account.
type ledger struct {
	Base
	Age Opt[string] `bun:"age"`
}

func (l *ledger) Fields() []Field {
	return append(l.Base.Fields(), Bind("age", &l.Age))
}

func TestIsEmptyMatchesSetFields(t *testing.T) {
	a := New[account]()
	assert.True(t, IsEmpty(a))
	assert.Empty(t, SetFields(a))
	assert.True(t, IsNew(a))

	a.Name.Put("alice")
	a.Age = Some(30)
	assert.False(t, IsEmpty(a))
	assert.Equal(t, map[string]any{"name": "alice", "age": 30}, SetFields(a))
	assert.Equal(t, []string{"name", "age"}, SetFieldNames(a))

	a.ID.Put("a-1")
	assert.False(t, IsNew(a))
	assert.Equal(t, []string{"id", "name", "age"}, SetFieldNames(a))
}

func TestColumnsAndLookup(t *testing.T) {
	a := &account{}
	assert.Equal(t, []string{"id", "created_at", "created_by", "updated_at", "updated_by", "name", "age", "balance"}, Columns(a))

	f, ok := Lookup(a, "balance")
	require.True(t, ok)
	assert.False(t, f.IsSet())
	assert.Nil(t, f.Value())

	_, ok = Lookup(a, "missing")
	assert.False(t, ok)
	assert.Equal(t, "account", TypeName(a))
}

func TestWithIDOnly(t *testing.T) {
	a := &account{Name: Some("alice")}
	a.ID.Put("a-1")

	only := WithIDOnly(a)
	assert.Equal(t, []string{"id"}, SetFieldNames(only))
	assert.Equal(t, "a-1", only.ID.V)
	assert.NotSame(t, a, only)
}

func TestApplyCopiesNamedFields(t *testing.T) {
	dst := &account{Name: Some("alice"), Age: Some(30)}
	src := &account{Age: Some(31)}

	require.NoError(t, Apply(dst, src, "age", "unknown"))
	assert.Equal(t, Some("alice"), dst.Name)
	assert.Equal(t, Some(31), dst.Age)

	// unset on the source clears the destination
	require.NoError(t, Apply(dst, src, "name"))
	assert.False(t, dst.Name.IsSet())
}

func TestApplyTypeMismatch(t *testing.T) {
	dst := &account{Age: Some(30)}
	src := &ledger{Age: Some("thirty")}

	err := Apply(dst, src, "age")
	assert.ErrorIs(t, err, ErrFieldType)
	assert.Equal(t, Some(30), dst.Age)
}

func TestClear(t *testing.T) {
	a := &account{Name: Some("alice"), Age: Some(30)}
	Clear(a, "name", "nope")
	assert.Equal(t, []string{"age"}, SetFieldNames(a))
}

func TestStampSetsCreatedOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 123456789, time.UTC)
	clk := testclock.NewClock(start)
	ids := 0
	s := Stamper{Clock: clk, NewID: func() string {
		ids++
		return "id-1"
	}}

	a := &account{Name: Some("alice")}
	s.Stamp(a, "creator")

	created := start.Truncate(time.Microsecond)
	assert.Equal(t, Some("id-1"), a.ID)
	assert.Equal(t, Some(created), a.CreatedAt)
	assert.Equal(t, Some("creator"), a.CreatedBy)
	assert.Equal(t, Some(created), a.UpdatedAt)

	clk.Advance(time.Hour)
	s.Stamp(a, "editor")

	assert.Equal(t, 1, ids)
	assert.Equal(t, Some(created), a.CreatedAt)
	assert.Equal(t, Some("creator"), a.CreatedBy)
	assert.Equal(t, Some(created.Add(time.Hour)), a.UpdatedAt)
	assert.Equal(t, Some("editor"), a.UpdatedBy)
}

func TestStampAuditDefaults(t *testing.T) {
	a := &account{}
	StampAudit(a, "system")
	assert.Len(t, a.ID.V, 36)
	assert.Equal(t, time.UTC, a.CreatedAt.V.Location())

	var zero Stamper
	b := &account{}
	zero.Stamp(b, "system")
	assert.True(t, b.ID.IsSet())
	assert.True(t, b.UpdatedAt.IsSet())
}
