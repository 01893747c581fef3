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

	"github.com/google/uuid"
	"github.com/tomoncle/exemplar/database"
	"github.com/tomoncle/exemplar/entity"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Session scopes repository work to one database handle, one logger and one
// stamper. It is not safe for concurrent use.
type Session struct {
	db        bun.IDB
	conn      *bun.Conn
	logger    database.Logger
	stamper   entity.Stamper
	requestID string
}

type Option func(*Session)

func WithLogger(logger database.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithStamper(stamper entity.Stamper) Option {
	return func(s *Session) { s.stamper = stamper }
}

// WithRequestID replaces the generated request id attached to every log line.
func WithRequestID(id string) Option {
	return func(s *Session) { s.requestID = id }
}

// NewSession wraps db without acquiring a dedicated connection. db may be a
// *bun.DB, a bun.Conn or a bun.Tx.
func NewSession(db bun.IDB, opts ...Option) *Session {
	s := &Session{db: db, stamper: entity.DefaultStamper()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = database.GetLogger()
	}
	if s.requestID == "" {
		s.requestID = uuid.NewString()
	}
	s.logger = s.logger.With("request_id", s.requestID)
	return s
}

// Open acquires a dedicated connection from db for the session. Close must be
// called to release it.
func Open(ctx context.Context, db *bun.DB, opts ...Option) (*Session, error) {
	s := NewSession(db, opts...)
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, s.fail("open", "session", err)
	}
	s.conn = &conn
	s.db = conn
	s.logger.Debug("session opened")
	return s, nil
}

// Close releases the connection acquired by Open. It is a no-op for sessions
// created with NewSession and safe to call twice.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return s.fail("close", "session", err)
	}
	s.logger.Debug("session closed")
	return nil
}

// WithSession opens a session, runs fn and always releases the session,
// also when fn fails or panics.
func WithSession(ctx context.Context, db *bun.DB, fn func(*Session) error, opts ...Option) (err error) {
	s, err := Open(ctx, db, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(s)
}

// InTx runs fn with a session bound to a new transaction on this session's
// handle. The transaction commits when fn returns nil.
func (s *Session) InTx(ctx context.Context, fn func(*Session) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		child := *s
		child.db = tx
		child.conn = nil
		return fn(&child)
	})
}

func (s *Session) DB() bun.IDB { return s.db }

func (s *Session) Logger() database.Logger { return s.logger }

func (s *Session) Stamper() entity.Stamper { return s.stamper }

func (s *Session) RequestID() string { return s.requestID }

func (s *Session) trace(op, typeName string) {
	s.logger.Info(op+" sql", "entity_type", typeName)
}

func (s *Session) traceQuery(op string, q schema.QueryAppender) {
	b, err := q.AppendQuery(schema.NewFormatter(s.db.Dialect()), nil)
	if err != nil {
		return
	}
	s.logger.Debug(op+" query", "query", string(b))
}

// fail logs err and wraps it with ErrExecution.
func (s *Session) fail(op, typeName string, err error) error {
	_, kind := database.ClassifySQLError(err)
	s.logger.Error(op+" sql error",
		"operation", op,
		"entity_type", typeName,
		"message", err.Error(),
		"sql_error", kind.String(),
	)
	return fmt.Errorf("%w: %s %s: %w", ErrExecution, op, typeName, err)
}
