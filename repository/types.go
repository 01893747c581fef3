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

package repository

import (
	"context"

	"github.com/tomoncle/exemplar/condition"
	"github.com/tomoncle/exemplar/entity"
	"github.com/tomoncle/exemplar/types"
)

// Criterion turns every set field of Example into a condition of Type.
type Criterion struct {
	Type    condition.Type
	Example entity.Entity
}

func By(typ condition.Type, example entity.Entity) Criterion {
	return Criterion{Type: typ, Example: example}
}

// Equal matches rows whose columns equal every set field of example.
func Equal(example entity.Entity) Criterion {
	return By(condition.Equal, example)
}

// FindRepository reads entities by example or by explicit expressions.
// Multiple criteria and expressions are ANDed.
type FindRepository[T any, PT entity.Pointer[T]] interface {
	// Find returns the first match, or an empty entity and ErrNotFound.
	Find(ctx context.Context, criteria ...Criterion) (PT, error)

	// FindAll returns every match ordered by id; never nil.
	FindAll(ctx context.Context, criteria ...Criterion) ([]PT, error)

	FindOneWhere(ctx context.Context, exprs ...condition.Expression) (PT, error)

	FindAllWhere(ctx context.Context, exprs ...condition.Expression) ([]PT, error)

	Count(ctx context.Context, criteria ...Criterion) (int, error)

	Exists(ctx context.Context, criteria ...Criterion) (bool, error)
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest, criteria ...Criterion) (*types.Pagination[T], error)
}

// WriteRepository persists entities. actor is recorded in the audit columns.
type WriteRepository[T any, PT entity.Pointer[T]] interface {
	// Save inserts a new model, or merges the set fields of an existing one
	// into the stored row, and returns the stored entity.
	Save(ctx context.Context, model PT, actor string) (PT, error)

	// BulkSave upserts every model, overwriting all stored columns. Fields
	// unset on a model become NULL; use Save for partial updates.
	BulkSave(ctx context.Context, models []PT, actor string) error

	// Delete removes the row with the model's id, or returns ErrNotFound.
	Delete(ctx context.Context, model PT) error
}

// Repository combines reads, pagination and writes for one entity type.
type Repository[T any, PT entity.Pointer[T]] interface {
	FindRepository[T, PT]
	PageQueryRepository[T]
	WriteRepository[T, PT]
	Session() *Session
}
