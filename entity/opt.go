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
	"bytes"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Opt is a column value that is either set or absent. An absent value is
// written as SQL NULL and never takes part in filters or partial updates.
type Opt[T any] struct {
	V   T
	Set bool
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{V: v, Set: true} }

// None returns an absent Opt.
func None[T any]() Opt[T] { return Opt[T]{} }

func (o Opt[T]) Get() (T, bool) { return o.V, o.Set }

func (o Opt[T]) IsSet() bool { return o.Set }

// IsZero lets Bun treat an absent value as zero.
func (o Opt[T]) IsZero() bool { return !o.Set }

// OrElse returns the held value or def when absent.
func (o Opt[T]) OrElse(def T) T {
	if !o.Set {
		return def
	}
	return o.V
}

// Put sets the value.
func (o *Opt[T]) Put(v T) {
	o.V, o.Set = v, true
}

// Unset makes the value absent.
func (o *Opt[T]) Unset() {
	var zero T
	o.V, o.Set = zero, false
}

// Any returns the held value, or nil when absent.
func (o *Opt[T]) Any() any {
	if !o.Set {
		return nil
	}
	return o.V
}

func (o *Opt[T]) assign(src slot) error {
	s, ok := src.(*Opt[T])
	if !ok {
		return fmt.Errorf("%w: cannot assign %T to %T", ErrFieldType, src, o)
	}
	*o = *s
	return nil
}

// Value implements driver.Valuer.
func (o Opt[T]) Value() (driver.Value, error) {
	if !o.Set {
		return nil, nil
	}
	if v, ok := any(o.V).(driver.Valuer); ok {
		return v.Value()
	}
	return o.V, nil
}

// Scan implements sql.Scanner.
func (o *Opt[T]) Scan(src any) error {
	if src == nil {
		o.Unset()
		return nil
	}
	if t, ok := any(&o.V).(*time.Time); ok {
		if err := scanTime(t, src); err != nil {
			return err
		}
		o.Set = true
		return nil
	}
	var n sql.Null[T]
	if err := n.Scan(src); err != nil {
		return err
	}
	o.V, o.Set = n.V, n.Valid
	return nil
}

// Layouts used by sqlite drivers that hand timestamps back as text.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func scanTime(dst *time.Time, src any) error {
	var s string
	switch v := src.(type) {
	case time.Time:
		*dst = v
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("cannot scan %T into time.Time", src)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*dst = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time.Time", s)
}

// MarshalJSON writes null for an absent value.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}

// UnmarshalJSON treats null as absent.
func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Unset()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Put(v)
	return nil
}
