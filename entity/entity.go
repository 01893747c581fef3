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
	"fmt"
	"reflect"
)

// Entity is a persistable record with a static list of optional columns.
type Entity interface {
	Audit() *Base
	Fields() []Field
}

// Pointer constrains PT to be *T implementing Entity, so generic code can
// allocate fresh instances of T.
type Pointer[T any] interface {
	*T
	Entity
}

// New allocates an empty instance.
func New[T any, PT Pointer[T]]() PT {
	return PT(new(T))
}

// IsNew reports whether e has never been assigned an identifier.
func IsNew(e Entity) bool {
	return e.Audit().IsNew()
}

// IsEmpty reports whether no field of e is set.
func IsEmpty(e Entity) bool {
	for _, f := range e.Fields() {
		if f.IsSet() {
			return false
		}
	}
	return true
}

// SetFields returns the set columns of e keyed by column name.
func SetFields(e Entity) map[string]any {
	m := make(map[string]any)
	for _, f := range e.Fields() {
		if f.IsSet() {
			m[f.Name] = f.Value()
		}
	}
	return m
}

// SetFieldNames returns the set column names of e in declaration order.
func SetFieldNames(e Entity) []string {
	names := make([]string, 0)
	for _, f := range e.Fields() {
		if f.IsSet() {
			names = append(names, f.Name)
		}
	}
	return names
}

// Columns returns every declared column name of e.
func Columns(e Entity) []string {
	fields := e.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the field of e bound to column name.
func Lookup(e Entity, name string) (Field, bool) {
	for _, f := range e.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// WithIDOnly returns a fresh instance carrying only the identifier of e.
func WithIDOnly[T any, PT Pointer[T]](e PT) PT {
	out := New[T, PT]()
	out.Audit().ID = e.Audit().ID
	return out
}

// Apply copies the named fields of src onto dst. A field unset on src
// becomes unset on dst. Names not declared on both sides are ignored.
func Apply(dst, src Entity, names ...string) error {
	for _, name := range names {
		to, ok := Lookup(dst, name)
		if !ok {
			continue
		}
		from, ok := Lookup(src, name)
		if !ok {
			continue
		}
		if err := to.assign(from); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

// Clear unsets the named fields of e.
func Clear(e Entity, names ...string) {
	for _, name := range names {
		if f, ok := Lookup(e, name); ok {
			f.clear()
		}
	}
}

// TypeName returns the bare struct name of e, used in logs.
func TypeName(e Entity) string {
	t := reflect.TypeOf(e)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
