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

	"github.com/tomoncle/exemplar/types"
)

// Type is the comparison operator of a Condition.
type Type int

const (
	Equal Type = iota
	NotEqual
	GreaterOrEqual
	GreaterThan
	LessOrEqual
	LessThan
	// Contains is membership when the value is a slice, literal substring otherwise.
	Contains
	// Like is a substring match; the value is wrapped with % on both sides.
	Like
)

var typeNames = [...]string{
	Equal:          "EQUAL",
	NotEqual:       "NOT_EQUAL",
	GreaterOrEqual: "GREATER_OR_EQUAL",
	GreaterThan:    "GREATER_THAN",
	LessOrEqual:    "LESS_OR_EQUAL",
	LessThan:       "LESS_THAN",
	Contains:       "CONTAINS",
	Like:           "LIKE",
}

var typeDescs = [...]string{
	Equal:          "=",
	NotEqual:       "<>",
	GreaterOrEqual: ">=",
	GreaterThan:    ">",
	LessOrEqual:    "<=",
	LessThan:       "<",
	Contains:       "contains",
	Like:           "like",
}

var _ types.BaseEnum = Equal

// Types returns every valid operator in declaration order.
func Types() []Type {
	return []Type{Equal, NotEqual, GreaterOrEqual, GreaterThan, LessOrEqual, LessThan, Contains, Like}
}

// ParseType resolves an operator from its name, e.g. "greater_than".
func ParseType(name string) (Type, error) {
	t, ok := types.EnumByName(Types(), name)
	if !ok {
		return Type(types.IllegalValue), fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

func (t Type) IsValid() bool { return t >= Equal && t <= Like }

func (t Type) Number() int {
	if !t.IsValid() {
		return types.IllegalValue
	}
	return int(t)
}

func (t Type) Name() string {
	if !t.IsValid() {
		return types.IllegalName
	}
	return typeNames[t]
}

func (t Type) Desc() string {
	if !t.IsValid() {
		return types.IllegalDesc
	}
	return typeDescs[t]
}

func (t Type) String() string { return t.Name() }

// Relation joins the two conditions of a Group.
type Relation int

const (
	And Relation = iota
	Or
)

var _ types.BaseEnum = And

// Relations returns every valid relation.
func Relations() []Relation { return []Relation{And, Or} }

// ParseRelation resolves a relation from its name ("and" / "or").
func ParseRelation(name string) (Relation, error) {
	r, ok := types.EnumByName(Relations(), name)
	if !ok {
		return Relation(types.IllegalValue), fmt.Errorf("%w: %q", ErrUnknownRelation, name)
	}
	return r, nil
}

func (r Relation) IsValid() bool { return r == And || r == Or }

func (r Relation) Number() int {
	if !r.IsValid() {
		return types.IllegalValue
	}
	return int(r)
}

func (r Relation) Name() string {
	switch r {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return types.IllegalName
	}
}

func (r Relation) Desc() string {
	if !r.IsValid() {
		return types.IllegalDesc
	}
	return "logical " + r.Name()
}

func (r Relation) String() string { return r.Name() }
