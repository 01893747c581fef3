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
	"fmt"
	"slices"

	"github.com/tomoncle/exemplar/entity"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
)

// immutableColumns keep their stored value when an existing row is overwritten.
var immutableColumns = []string{entity.ColumnID, entity.ColumnCreatedAt, entity.ColumnCreatedBy}

// upsertColumns are the declared columns an upsert overwrites.
func upsertColumns[T any, PT entity.Pointer[T]]() []string {
	cols := entity.Columns(entity.New[T, PT]())
	return slices.DeleteFunc(cols, func(c string) bool {
		return slices.Contains(immutableColumns, c)
	})
}

func (r *baseRepositoryImpl[T, PT]) upsert(ctx context.Context, tx bun.Tx, models []PT) error {
	columns := upsertColumns[T, PT]()
	features := tx.Dialect().Features()

	switch {
	case features.Has(feature.InsertOnConflict):
		return r.upsertOnConflict(ctx, tx, columns, models)
	case features.Has(feature.InsertOnDuplicateKey):
		return r.upsertOnDuplicateKey(ctx, tx, columns, models)
	default:
		return r.upsertFallback(ctx, tx, models)
	}
}

// upsertOnConflict serves postgres and sqlite.
func (r *baseRepositoryImpl[T, PT]) upsertOnConflict(ctx context.Context, tx bun.Tx, columns []string, models []PT) error {
	q := tx.NewInsert().
		Model(&models).
		On("CONFLICT (?) DO UPDATE", bun.Ident(entity.ColumnID))
	for _, c := range columns {
		q = q.Set("? = EXCLUDED.?", bun.Ident(c), bun.Ident(c))
	}
	r.s.traceQuery(opBulkSave, q)
	_, err := q.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T, PT]) upsertOnDuplicateKey(ctx context.Context, tx bun.Tx, columns []string, models []PT) error {
	q := tx.NewInsert().
		Model(&models).
		On("DUPLICATE KEY UPDATE")
	for _, c := range columns {
		q = q.Set("? = VALUES(?)", bun.Ident(c), bun.Ident(c))
	}
	r.s.traceQuery(opBulkSave, q)
	_, err := q.Exec(ctx)
	return err
}

// upsertFallback updates rows that exist and inserts the rest, one by one.
func (r *baseRepositoryImpl[T, PT]) upsertFallback(ctx context.Context, tx bun.Tx, models []PT) error {
	for _, m := range models {
		exists, err := tx.NewSelect().Model(entity.New[T, PT]()).Where("? = ?", bun.Ident(entity.ColumnID), m.Audit().ID.V).Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			_, err = tx.NewUpdate().Model(m).WherePK().ExcludeColumn(immutableColumns...).Exec(ctx)
		} else {
			_, err = tx.NewInsert().Model(m).Exec(ctx)
		}
		if err != nil {
			return fmt.Errorf("upsert %s: %w", m.Audit().ID.V, err)
		}
	}
	return nil
}
