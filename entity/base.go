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

import "time"

// Audit column names.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnCreatedBy = "created_by"
	ColumnUpdatedAt = "updated_at"
	ColumnUpdatedBy = "updated_by"
)

// Base carries the identifier and audit stamps shared by every entity.
// Embed it in a Bun model and list the model's own columns in Fields:
//
//	type User struct {
//		bun.BaseModel `bun:"table:users"`
//		entity.Base
//		Name entity.Opt[string] `bun:"name,type:varchar(255)"`
//	}
//
//	func (u *User) Fields() []entity.Field {
//		return append(u.Base.Fields(), entity.Bind("name", &u.Name))
//	}
type Base struct {
	ID        Opt[string]    `bun:"id,pk,type:varchar(64)" json:"id"`
	CreatedAt Opt[time.Time] `bun:"created_at,type:timestamp" json:"created_at"`
	CreatedBy Opt[string]    `bun:"created_by,type:varchar(64)" json:"created_by"`
	UpdatedAt Opt[time.Time] `bun:"updated_at,type:timestamp" json:"updated_at"`
	UpdatedBy Opt[string]    `bun:"updated_by,type:varchar(64)" json:"updated_by"`
}

// Audit returns the receiver; it is promoted to every embedding entity.
func (b *Base) Audit() *Base { return b }

// Fields returns the audit columns.
func (b *Base) Fields() []Field {
	return []Field{
		Bind(ColumnID, &b.ID),
		Bind(ColumnCreatedAt, &b.CreatedAt),
		Bind(ColumnCreatedBy, &b.CreatedBy),
		Bind(ColumnUpdatedAt, &b.UpdatedAt),
		Bind(ColumnUpdatedBy, &b.UpdatedBy),
	}
}

func (b *Base) IsNew() bool { return !b.ID.Set }
