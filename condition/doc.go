// Package condition provides the predicate model: comparison operators, single
// conditions with optional negation, and two-condition AND/OR groups, all
// rendered to Bun WHERE fragments.
package condition
