// Package evaluator follows column paths through values.
//
// Resolution is pure: a Resolver holds no mutable state and may be shared
// across goroutines.
package evaluator

import (
	"fmt"

	"github.com/JoshCheek/nushell/internal/columnpath"
	"github.com/JoshCheek/nushell/internal/value"
)

// Resolver walks a path through a value.
type Resolver struct {
	explain Explainer
}

// NewResolver builds a resolver. explain renders the per-row failures that
// fan-out embeds as Error values; nil selects PlainExplain.
func NewResolver(explain Explainer) *Resolver {
	if explain == nil {
		explain = PlainExplain
	}
	return &Resolver{explain: explain}
}

// Resolve follows p through v, one member at a time.
//
// A field applied to a table selects that column: the result is a table
// with one element per row, holding either the row's value or an Error
// value for rows without the field. The next member then applies to that
// column, so "name.0" picks the first name. When no row has the field at
// all the whole lookup fails instead. Error values met along the way are
// returned unchanged.
func (r *Resolver) Resolve(v value.Value, p columnpath.Path) (value.Value, *Failure) {
	current := v
	for depth := 0; depth < p.Len(); depth++ {
		member := p.At(depth)
		fail := func(kind Kind) (value.Value, *Failure) {
			return nil, &Failure{Kind: kind, Member: member, Path: p, Source: current, Depth: depth}
		}

		switch cur := current.(type) {
		case *value.Error:
			return cur, nil
		case *value.Scalar:
			return fail(KindShapeMismatch)
		case *value.Record:
			if member.IsIndex() {
				return fail(KindIndexIntoRecord)
			}
			next, ok := cur.Get(member.Name)
			if !ok {
				return fail(KindUnknownColumn)
			}
			current = next
		case *value.Table:
			if member.IsField() {
				column, failure := r.column(cur, p, depth)
				if failure != nil {
					return nil, failure
				}
				current = column
				continue
			}
			row, ok := cur.Row(member.Index)
			if !ok {
				return fail(KindIndexOutOfRange)
			}
			current = row
		default:
			panic(fmt.Sprintf("evaluator: unexpected value variant %T", current))
		}
	}
	return current, nil
}

// column applies the field member at depth to every row of table. Rows
// that are tables themselves yield their own column.
func (r *Resolver) column(table *value.Table, p columnpath.Path, depth int) (value.Value, *Failure) {
	member := p.At(depth)
	rows := make([]value.Value, 0, table.Len())
	supplied := false

	for _, row := range table.Rows() {
		rowFailure := func(kind Kind) value.Value {
			failure := &Failure{Kind: kind, Member: member, Path: p, Source: row, Depth: depth}
			return value.NewError(r.explain(failure), row.Tag())
		}

		switch cur := row.(type) {
		case *value.Error:
			supplied = true
			rows = append(rows, cur)
		case *value.Record:
			next, ok := cur.Get(member.Name)
			if !ok {
				rows = append(rows, rowFailure(KindUnknownColumn))
				continue
			}
			supplied = true
			rows = append(rows, next)
		case *value.Table:
			nested, failure := r.column(cur, p, depth)
			if failure != nil {
				rows = append(rows, value.NewError(r.explain(failure), row.Tag()))
				continue
			}
			supplied = true
			rows = append(rows, nested)
		case *value.Scalar:
			rows = append(rows, rowFailure(KindShapeMismatch))
		default:
			panic(fmt.Sprintf("evaluator: unexpected value variant %T", row))
		}
	}

	if !supplied {
		return nil, &Failure{
			Kind:   KindUnknownColumn,
			Member: member,
			Path:   p,
			Source: table,
			Depth:  depth,
		}
	}
	return value.NewTable(rows, table.Tag()), nil
}
