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

package condition

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tomoncle/exemplar/types"
	"github.com/uptrace/bun"
)

// Expression is anything that renders to a Bun WHERE fragment.
type Expression interface {
	ToExpression() (*types.QueryFilter, error)
}

// Condition is a single comparison between a column and a literal value.
type Condition struct {
	Field  string
	Type   Type
	Value  any
	Negate bool
}

var _ Expression = Condition{}

// New returns a Condition comparing field to value with the given operator.
func New(field string, typ Type, value any, negate bool) Condition {
	return Condition{Field: field, Type: typ, Value: value, Negate: negate}
}

func Eq(field string, value any) Condition { return New(field, Equal, value, false) }

func Ne(field string, value any) Condition { return New(field, NotEqual, value, false) }

func Gte(field string, value any) Condition { return New(field, GreaterOrEqual, value, false) }

func Gt(field string, value any) Condition { return New(field, GreaterThan, value, false) }

func Lte(field string, value any) Condition { return New(field, LessOrEqual, value, false) }

func Lt(field string, value any) Condition { return New(field, LessThan, value, false) }

func Has(field string, value any) Condition { return New(field, Contains, value, false) }

func Matches(field string, value any) Condition { return New(field, Like, value, false) }

// Not returns a copy of c with the negate flag flipped.
func (c Condition) Not() Condition {
	c.Negate = !c.Negate
	return c
}

func (c Condition) String() string {
	s := fmt.Sprintf("%s %s %v", c.Field, c.Type.Desc(), c.Value)
	if c.Negate {
		return "NOT " + s
	}
	return s
}

type builder func(column bun.Ident, value any) (*types.QueryFilter, error)

// builders is keyed by the operator stored on each Condition.
var builders = map[Type]builder{
	Equal:          nullable("=", "IS NULL"),
	NotEqual:       nullable("<>", "IS NOT NULL"),
	GreaterOrEqual: compare(">="),
	GreaterThan:    compare(">"),
	LessOrEqual:    compare("<="),
	LessThan:       compare("<"),
	Contains:       contains,
	Like:           like,
}

// ToExpression renders the condition. A negated condition is wrapped in NOT.
func (c Condition) ToExpression() (*types.QueryFilter, error) {
	if strings.TrimSpace(c.Field) == "" {
		return nil, ErrEmptyField
	}
	build, ok := builders[c.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(c.Type))
	}
	expr, err := build(bun.Ident(c.Field), c.Value)
	if err != nil {
		return nil, fmt.Errorf("condition on %q: %w", c.Field, err)
	}
	if c.Negate {
		expr = expr.Not()
	}
	return expr, nil
}

func compare(op string) builder {
	return func(column bun.Ident, value any) (*types.QueryFilter, error) {
		if value == nil {
			return nil, ErrNilValue
		}
		return types.NewQueryFilter("? "+op+" ?", column, value), nil
	}
}

func nullable(op, nullOp string) builder {
	cmp := compare(op)
	return func(column bun.Ident, value any) (*types.QueryFilter, error) {
		if value == nil {
			return types.NewQueryFilter("? "+nullOp, column), nil
		}
		return cmp(column, value)
	}
}

func like(column bun.Ident, value any) (*types.QueryFilter, error) {
	if value == nil {
		return nil, ErrNilValue
	}
	return types.NewQueryFilter("? LIKE ?", column, fmt.Sprintf("%%%v%%", value)), nil
}

const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

func contains(column bun.Ident, value any) (*types.QueryFilter, error) {
	if value == nil {
		return nil, ErrNilValue
	}
	if isCollection(value) {
		if reflect.ValueOf(value).Len() == 0 {
			return types.NewQueryFilter("1 = 0"), nil
		}
		return types.NewQueryFilter("? IN (?)", column, bun.In(value)), nil
	}
	pattern := "%" + likeEscaper.Replace(fmt.Sprint(value)) + "%"
	return types.NewQueryFilter("? LIKE ? ESCAPE '"+likeEscape+"'", column, pattern), nil
}

func isCollection(value any) bool {
	if _, ok := value.([]byte); ok {
		return false
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// Group joins exactly two conditions with AND or OR. Deeper trees are not
// representable.
type Group struct {
	Condition1 Condition
	Condition2 Condition
	Relation   Relation
}

var _ Expression = Group{}

// NewGroup returns c1 <relation> c2.
func NewGroup(c1 Condition, relation Relation, c2 Condition) Group {
	return Group{Condition1: c1, Condition2: c2, Relation: relation}
}

// Join builds a Group from a list of conditions. Anything other than exactly
// two conditions is rejected with ErrCompositionLimit.
func Join(relation Relation, conditions ...Condition) (Group, error) {
	if len(conditions) != 2 {
		return Group{}, fmt.Errorf("%w: got %d conditions", ErrCompositionLimit, len(conditions))
	}
	return NewGroup(conditions[0], relation, conditions[1]), nil
}

// ToExpression renders both conditions and combines them per Relation.
func (g Group) ToExpression() (*types.QueryFilter, error) {
	if !g.Relation.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRelation, int(g.Relation))
	}
	left, err := g.Condition1.ToExpression()
	if err != nil {
		return nil, err
	}
	right, err := g.Condition2.ToExpression()
	if err != nil {
		return nil, err
	}
	if g.Relation == Or {
		return left.Or(right), nil
	}
	return left.And(right), nil
}
