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
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/tomoncle/exemplar/condition"
	"github.com/tomoncle/exemplar/entity"
	"github.com/tomoncle/exemplar/types"
	"github.com/uptrace/bun"
)

const (
	opFind     = "find"
	opFindAll  = "find_all"
	opCount    = "count"
	opExists   = "exists"
	opPage     = "page"
	opSave     = "save"
	opBulkSave = "bulk_save"
	opDelete   = "delete"
)

type baseRepositoryImpl[T any, PT entity.Pointer[T]] struct {
	s        *Session
	typeName string
}

// NewRepository returns a generic repository bound to s.
func NewRepository[T any, PT entity.Pointer[T]](s *Session) Repository[T, PT] {
	return &baseRepositoryImpl[T, PT]{s: s, typeName: entity.TypeName(entity.New[T, PT]())}
}

func (r *baseRepositoryImpl[T, PT]) Session() *Session { return r.s }

// criteriaFilter ANDs one condition per set field of every example.
func criteriaFilter(criteria []Criterion) (*types.QueryFilter, error) {
	var filter *types.QueryFilter
	for _, c := range criteria {
		if c.Example == nil {
			continue
		}
		for _, f := range c.Example.Fields() {
			if !f.IsSet() {
				continue
			}
			expr, err := condition.New(f.Name, c.Type, f.Value(), false).ToExpression()
			if err != nil {
				return nil, err
			}
			filter = filter.And(expr)
		}
	}
	return filter, nil
}

func expressionFilter(exprs []condition.Expression) (*types.QueryFilter, error) {
	var filter *types.QueryFilter
	for _, e := range exprs {
		expr, err := e.ToExpression()
		if err != nil {
			return nil, err
		}
		filter = filter.And(expr)
	}
	return filter, nil
}

func where(q *bun.SelectQuery, filter *types.QueryFilter) *bun.SelectQuery {
	if filter.IsEmpty() {
		return q
	}
	return q.Where(filter.Schema, filter.Args...)
}

// identity is the equality filter built from the id of model alone.
func identity[T any, PT entity.Pointer[T]](model PT) (*types.QueryFilter, error) {
	return criteriaFilter([]Criterion{Equal(entity.WithIDOnly[T, PT](model))})
}

// selectOne returns ErrNotFound unwrapped when nothing matched.
func (r *baseRepositoryImpl[T, PT]) selectOne(ctx context.Context, db bun.IDB, op string, filter *types.QueryFilter) (PT, error) {
	model := entity.New[T, PT]()
	q := where(db.NewSelect().Model(model), filter).
		OrderExpr("? ASC", bun.Ident(entity.ColumnID)).
		Limit(1)
	r.s.traceQuery(op, q)
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.New[T, PT](), ErrNotFound
		}
		return entity.New[T, PT](), err
	}
	if entity.IsEmpty(model) {
		return entity.New[T, PT](), ErrNotFound
	}
	return model, nil
}

func (r *baseRepositoryImpl[T, PT]) selectAll(ctx context.Context, op string, filter *types.QueryFilter) ([]PT, error) {
	models := make([]PT, 0)
	q := where(r.s.db.NewSelect().Model(&models), filter).
		OrderExpr("? ASC", bun.Ident(entity.ColumnID))
	r.s.traceQuery(op, q)
	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return make([]PT, 0), err
	}
	return models, nil
}

// one maps selectOne results to the public contract.
func (r *baseRepositoryImpl[T, PT]) one(ctx context.Context, op string, filter *types.QueryFilter, buildErr error) (PT, error) {
	r.s.trace(op, r.typeName)
	if buildErr != nil {
		return entity.New[T, PT](), r.s.fail(op, r.typeName, buildErr)
	}
	model, err := r.selectOne(ctx, r.s.db, op, filter)
	switch {
	case errors.Is(err, ErrNotFound):
		return model, fmt.Errorf("%w: %s", ErrNotFound, r.typeName)
	case err != nil:
		return model, r.s.fail(op, r.typeName, err)
	}
	return model, nil
}

func (r *baseRepositoryImpl[T, PT]) all(ctx context.Context, op string, filter *types.QueryFilter, buildErr error) ([]PT, error) {
	r.s.trace(op, r.typeName)
	if buildErr != nil {
		return make([]PT, 0), r.s.fail(op, r.typeName, buildErr)
	}
	models, err := r.selectAll(ctx, op, filter)
	if err != nil {
		return models, r.s.fail(op, r.typeName, err)
	}
	return models, nil
}

func (r *baseRepositoryImpl[T, PT]) Find(ctx context.Context, criteria ...Criterion) (PT, error) {
	filter, err := criteriaFilter(criteria)
	return r.one(ctx, opFind, filter, err)
}

func (r *baseRepositoryImpl[T, PT]) FindAll(ctx context.Context, criteria ...Criterion) ([]PT, error) {
	filter, err := criteriaFilter(criteria)
	return r.all(ctx, opFindAll, filter, err)
}

func (r *baseRepositoryImpl[T, PT]) FindOneWhere(ctx context.Context, exprs ...condition.Expression) (PT, error) {
	filter, err := expressionFilter(exprs)
	return r.one(ctx, opFind, filter, err)
}

func (r *baseRepositoryImpl[T, PT]) FindAllWhere(ctx context.Context, exprs ...condition.Expression) ([]PT, error) {
	filter, err := expressionFilter(exprs)
	return r.all(ctx, opFindAll, filter, err)
}

func (r *baseRepositoryImpl[T, PT]) Count(ctx context.Context, criteria ...Criterion) (int, error) {
	r.s.trace(opCount, r.typeName)
	filter, err := criteriaFilter(criteria)
	if err != nil {
		return 0, r.s.fail(opCount, r.typeName, err)
	}
	q := where(r.s.db.NewSelect().Model(entity.New[T, PT]()), filter)
	r.s.traceQuery(opCount, q)
	n, err := q.Count(ctx)
	if err != nil {
		return 0, r.s.fail(opCount, r.typeName, err)
	}
	return n, nil
}

func (r *baseRepositoryImpl[T, PT]) Exists(ctx context.Context, criteria ...Criterion) (bool, error) {
	r.s.trace(opExists, r.typeName)
	filter, err := criteriaFilter(criteria)
	if err != nil {
		return false, r.s.fail(opExists, r.typeName, err)
	}
	q := where(r.s.db.NewSelect().Model(entity.New[T, PT]()), filter)
	r.s.traceQuery(opExists, q)
	ok, err := q.Exists(ctx)
	if err != nil {
		return false, r.s.fail(opExists, r.typeName, err)
	}
	return ok, nil
}

// Page ANDs the criteria with the page filter. Rows are ordered by the page
// orders, or by id when none are given.
func (r *baseRepositoryImpl[T, PT]) Page(ctx context.Context, pageRequest *types.PageRequest, criteria ...Criterion) (*types.Pagination[T], error) {
	if pageRequest == nil {
		pageRequest = types.NewDefaultPageRequest(1, 10)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	r.s.trace(opPage, r.typeName)
	filter, err := criteriaFilter(criteria)
	if err != nil {
		return pagination, r.s.fail(opPage, r.typeName, err)
	}
	filter = filter.And(pageRequest.GetFilter())

	items := make([]*T, 0)
	query := where(r.s.db.NewSelect().Model(&items), filter)
	total, err := query.Count(ctx)
	if err != nil {
		return pagination, r.s.fail(opPage, r.typeName, err)
	}
	if total == 0 {
		return pagination, nil
	}
	if orders := pageRequest.GetOrders(); len(orders) > 0 {
		query = query.Order(orders...)
	} else {
		query = query.OrderExpr("? ASC", bun.Ident(entity.ColumnID))
	}
	query = query.Offset(pageRequest.GetOffset()).Limit(pageRequest.GetPageSize())
	r.s.traceQuery(opPage, query)
	if err := query.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return pagination, r.s.fail(opPage, r.typeName, err)
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

// mergeColumns are the set fields of model that Save copies onto the stored
// row. Audit columns are owned by the stamper.
func mergeColumns(model entity.Entity) []string {
	names := entity.SetFieldNames(model)
	return slices.DeleteFunc(names, func(name string) bool {
		return slices.Contains(entity.AuditColumns, name)
	})
}

// Save runs lookup and write in one transaction. A model with an id that is
// not stored yet is inserted with that id.
func (r *baseRepositoryImpl[T, PT]) Save(ctx context.Context, model PT, actor string) (PT, error) {
	r.s.trace(opSave, r.typeName)
	if model == nil {
		return entity.New[T, PT](), r.s.fail(opSave, r.typeName, errors.New("nil model"))
	}

	var saved PT
	err := r.s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if !entity.IsNew(model) {
			filter, err := identity[T, PT](model)
			if err != nil {
				return err
			}
			canonical, err := r.selectOne(ctx, tx, opSave, filter)
			switch {
			case err == nil:
				if err := entity.Apply(canonical, model, mergeColumns(model)...); err != nil {
					return err
				}
				r.s.stamper.Stamp(canonical, actor)
				q := tx.NewUpdate().Model(canonical).WherePK()
				r.s.traceQuery(opSave, q)
				if _, err := q.Exec(ctx); err != nil {
					return err
				}
				saved = canonical
				return nil
			case !errors.Is(err, ErrNotFound):
				return err
			}
		}
		r.s.stamper.Stamp(model, actor)
		q := tx.NewInsert().Model(model)
		r.s.traceQuery(opSave, q)
		if _, err := q.Exec(ctx); err != nil {
			return err
		}
		saved = model
		return nil
	})
	if err != nil {
		return entity.New[T, PT](), r.s.fail(opSave, r.typeName, err)
	}
	return saved, nil
}

func (r *baseRepositoryImpl[T, PT]) BulkSave(ctx context.Context, models []PT, actor string) error {
	r.s.trace(opBulkSave, r.typeName)
	models = slices.DeleteFunc(slices.Clone(models), func(m PT) bool { return m == nil })
	if len(models) == 0 {
		return nil
	}
	for _, m := range models {
		r.s.stamper.Stamp(m, actor)
	}
	err := r.s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.upsert(ctx, tx, models)
	})
	if err != nil {
		return r.s.fail(opBulkSave, r.typeName, err)
	}
	return nil
}

// Delete looks the row up by id inside the transaction and deletes it.
func (r *baseRepositoryImpl[T, PT]) Delete(ctx context.Context, model PT) error {
	r.s.trace(opDelete, r.typeName)
	if model == nil || entity.IsNew(model) {
		return fmt.Errorf("%w: %s without id", ErrNotFound, r.typeName)
	}
	err := r.s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		filter, err := identity[T, PT](model)
		if err != nil {
			return err
		}
		canonical, err := r.selectOne(ctx, tx, opDelete, filter)
		if err != nil {
			return err
		}
		q := tx.NewDelete().Model(canonical).WherePK()
		r.s.traceQuery(opDelete, q)
		_, err = q.Exec(ctx)
		return err
	})
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: %s %s", ErrNotFound, r.typeName, model.Audit().ID.V)
	case err != nil:
		return r.s.fail(opDelete, r.typeName, err)
	}
	return nil
}
