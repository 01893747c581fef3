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

// Package entity defines the contract shared by every persisted record.
//
// Each column is an Opt value that is either set or absent, and each entity
// type lists its columns once through Fields. Set fields drive both query
// filters and partial updates; absent fields are left alone. Base supplies the
// identifier and audit columns and Stamper keeps them current.
package entity
