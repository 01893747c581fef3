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

package exemplar

import (
	"context"
	"fmt"

	"github.com/tomoncle/exemplar/condition"
	"github.com/tomoncle/exemplar/database"
	"github.com/tomoncle/exemplar/entity"
	"github.com/tomoncle/exemplar/repository"
	"github.com/tomoncle/exemplar/types"
	"github.com/uptrace/bun"
)

type Service[T any, PT entity.Pointer[T]] interface {
	// Find returns the first entity matching every criterion.
	Find(ctx context.Context, criteria ...repository.Criterion) (PT, error)

	// FindAll returns all entities matching every criterion.
	FindAll(ctx context.Context, criteria ...repository.Criterion) ([]PT, error)

	// FindOneWhere returns the first entity matching every expression.
	FindOneWhere(ctx context.Context, exprs ...condition.Expression) (PT, error)

	// FindAllWhere returns the entities matching every expression.
	FindAllWhere(ctx context.Context, exprs ...condition.Expression) ([]PT, error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest, criteria ...repository.Criterion) (*types.Pagination[T], error)

	Count(ctx context.Context, criteria ...repository.Criterion) (int, error)

	Exists(ctx context.Context, criteria ...repository.Criterion) (bool, error)

	// Save inserts or merges one entity on behalf of actor.
	Save(ctx context.Context, model PT, actor string) (PT, error)

	// BulkSave overwrites every model in one batch.
	BulkSave(ctx context.Context, models []PT, actor string) error

	// Delete removes an entity by its identifier.
	Delete(ctx context.Context, model PT) error

	// InTx runs fn with a repository bound to one transaction.
	InTx(ctx context.Context, fn func(repository.Repository[T, PT]) error) error
}

type baseServiceImpl[T any, PT entity.Pointer[T]] struct {
	db   *bun.DB
	opts []repository.Option
}

// NewService returns a default Service implementation backed by the global
// database connection. Every call opens its own session.
func NewService[T any, PT entity.Pointer[T]](opts ...repository.Option) Service[T, PT] {
	return &baseServiceImpl[T, PT]{opts: opts}
}

// NewServiceWithDB returns a Service bound to db instead of the global
// connection.
func NewServiceWithDB[T any, PT entity.Pointer[T]](db *bun.DB, opts ...repository.Option) Service[T, PT] {
	return &baseServiceImpl[T, PT]{db: db, opts: opts}
}

func (s *baseServiceImpl[T, PT]) conn() (*bun.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if db := database.GetDB(); db != nil {
		return db, nil
	}
	return nil, fmt.Errorf("%w: database not initialized", repository.ErrExecution)
}

// withRepo runs fn with a repository on a fresh session.
func (s *baseServiceImpl[T, PT]) withRepo(ctx context.Context, fn func(repository.Repository[T, PT]) error) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return repository.WithSession(ctx, db, func(session *repository.Session) error {
		return fn(repository.NewRepository[T, PT](session))
	}, s.opts...)
}

func (s *baseServiceImpl[T, PT]) Find(ctx context.Context, criteria ...repository.Criterion) (PT, error) {
	model := entity.New[T, PT]()
	err := s.withRepo(ctx, func(r repository.Repository[T, PT]) (err error) {
		model, err = r.Find(ctx, criteria...)
		return err
	})
	return model, err
}

func (s *baseServiceImpl[T, PT]) FindAll(ctx context.Context, criteria ...repository.Criterion) ([]PT, error) {
	models := make([]PT, 0)
	err := s.withRepo(ctx, func(r repository.Repository[T, PT]) (err error) {
		models, err = r.FindAll(ctx, criteria...)
		return err
	})
	return models, err
}

func (s *baseServiceImpl[T, PT]) FindOneWhere(ctx context.Context, exprs ...condition.Expression) (PT, error) {
	model := entity.New[T, PT]()
	err := s.withRepo(ctx, func(r repository.Repository[T, PT]) (err error) {
		model, err = r.FindOneWhere(ctx, exprs...)
		return err
	})
	return model, err
}

func (s *baseServiceImpl[T, PT]) FindAllWhere(ctx context.Context, exprs ...condition.Expression) ([]PT, error) {
	models := make([]PT, 0)
	err := s.withRepo(ctx, func(r repository.Repository[T, PT]) (err error) {
		models, err = r.FindAllWhere(ctx, exprs...)
		return err
	})
	return models, err
}

func (s *baseServiceImpl[T, PT]) Page(ctx context.Context, page *types.PageRequest, criteria ...repository.Criterion) (*types.Pagination[T], error) {
	var pagination *types.Pagination[T]
	err := s.withRepo(ctx, func(r repository.Repository[T, PT]) (err error) {
		pagination, err = r.Page(ctx, page, criteria...)
		return err
	})
	if pagination == nil {
		pagination = types.NewDefaultPagination[T](1, 10)
	}
	return pagination, err
}

func (s *baseServiceImpl[T, PT]) Count(ctx context.Context, criteria ...repository.Criterion) (int, error) {
	var n int
	err := s.withRepo(ctx, func(r repository.Repository[T, PT]) (err error) {
		n, err = r.Count(ctx, criteria...)
		return err
	})
	return n, err
}

func (s *baseServiceImpl[T, PT]) Exists(ctx context.Context, criteria ...repository.Criterion) (bool, error) {
	var ok bool
	err := s.withRepo(ctx, func(r repository.Repository[T, PT]) (err error) {
		ok, err = r.Exists(ctx, criteria...)
		return err
	})
	return ok, err
}

func (s *baseServiceImpl[T, PT]) Save(ctx context.Context, model PT, actor string) (PT, error) {
	saved := entity.New[T, PT]()
	err := s.withRepo(ctx, func(r repository.Repository[T, PT]) (err error) {
		saved, err = r.Save(ctx, model, actor)
		return err
	})
	return saved, err
}

func (s *baseServiceImpl[T, PT]) BulkSave(ctx context.Context, models []PT, actor string) error {
	return s.withRepo(ctx, func(r repository.Repository[T, PT]) error {
		return r.BulkSave(ctx, models, actor)
	})
}

func (s *baseServiceImpl[T, PT]) Delete(ctx context.Context, model PT) error {
	return s.withRepo(ctx, func(r repository.Repository[T, PT]) error {
		return r.Delete(ctx, model)
	})
}

func (s *baseServiceImpl[T, PT]) InTx(ctx context.Context, fn func(repository.Repository[T, PT]) error) error {
	return s.withRepo(ctx, func(r repository.Repository[T, PT]) error {
		return r.Session().InTx(ctx, func(tx *repository.Session) error {
			return fn(repository.NewRepository[T, PT](tx))
		})
	})
}
