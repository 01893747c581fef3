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

// slot is the type-erased view of an *Opt[T] held by a Field.
type slot interface {
	IsSet() bool
	Any() any
	Unset()
	assign(src slot) error
}

// Field binds a column name to one Opt value of a concrete entity instance.
type Field struct {
	Name string
	ref  slot
}

// Bind returns a Field named after the Bun column that stores opt.
func Bind[T any](name string, opt *Opt[T]) Field {
	return Field{Name: name, ref: opt}
}

func (f Field) IsSet() bool { return f.ref != nil && f.ref.IsSet() }

// Value returns the bound value, or nil when absent.
func (f Field) Value() any {
	if f.ref == nil {
		return nil
	}
	return f.ref.Any()
}

func (f Field) clear() {
	if f.ref != nil {
		f.ref.Unset()
	}
}

func (f Field) assign(src Field) error {
	return f.ref.assign(src.ref)
}
