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

import (
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
)

// AuditColumns are maintained by Stamper and never merged from callers.
var AuditColumns = []string{ColumnCreatedAt, ColumnCreatedBy, ColumnUpdatedAt, ColumnUpdatedBy}

// Stamper fills identifiers and audit stamps.
type Stamper struct {
	Clock clock.Clock
	NewID func() string
}

// DefaultStamper uses the wall clock and random UUIDs.
func DefaultStamper() Stamper {
	return Stamper{Clock: clock.WallClock, NewID: uuid.NewString}
}

// Stamp sets updated_at/updated_by on every call and created_at/created_by
// only when created_at is still unset. A missing id is generated.
func (s Stamper) Stamp(e Entity, actor string) {
	b := e.Audit()
	now := s.now()
	if !b.ID.Set {
		b.ID.Put(s.newID())
	}
	if !b.CreatedAt.Set {
		b.CreatedAt.Put(now)
		b.CreatedBy.Put(actor)
	}
	b.UpdatedAt.Put(now)
	b.UpdatedBy.Put(actor)
}

// Timestamps are kept in UTC at microsecond precision so that every dialect
// round-trips them unchanged.
func (s Stamper) now() time.Time {
	c := s.Clock
	if c == nil {
		c = clock.WallClock
	}
	return c.Now().UTC().Truncate(time.Microsecond)
}

func (s Stamper) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

// StampAudit stamps e with DefaultStamper.
func StampAudit(e Entity, actor string) {
	DefaultStamper().Stamp(e, actor)
}
