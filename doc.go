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

// Package exemplar is a generic relational persistence helper. Entities
// declare their columns as entity.Opt fields, partial entities become filters
// and change-sets, and Service runs every call on its own session.
//
//	db, err := database.InitDB(cfg)
//	users := exemplar.NewService[User]()
//	u, err := users.Save(ctx, &User{Name: entity.Some("alice")}, "admin")
package exemplar
