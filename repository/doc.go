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

// Package repository is a generic persistence engine built on Bun.
//
// Queries are expressed by example: the set fields of an entity become
// conditions of one operator type, and several examples are ANDed together.
// Save merges the set fields of a model into the stored row inside a
// transaction, BulkSave overwrites rows wholesale, and Delete removes the row
// matching a model's id.
//
// Every call returns a usable value. An entity that does not exist comes back
// empty together with ErrNotFound; a database failure is logged and comes back
// as an empty value together with ErrExecution.
package repository
