// Package get drives column path resolution over a stream of values.
//
// With paths, every input item is resolved against every path in order and
// table results are flattened into their rows. Without paths, the driver
// reports the ordered union of column names seen across the whole input.
package get

import (
	"context"
	"fmt"
	"iter"

	"github.com/JoshCheek/nushell/internal/columnpath"
	"github.com/JoshCheek/nushell/internal/evaluator"
	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/value"
)

// Option configures a Driver.
type Option func(*Driver)

// WithExplainer sets how failures are rendered into Error values.
func WithExplainer(explain evaluator.Explainer) Option {
	return func(d *Driver) {
		if explain != nil {
			d.explain = explain
		}
	}
}

// Driver resolves paths over a stream. It is safe for concurrent use.
type Driver struct {
	explain  evaluator.Explainer
	resolver *evaluator.Resolver
}

// New builds a driver. Failures are rendered with evaluator.PlainExplain
// unless WithExplainer is given.
func New(opts ...Option) *Driver {
	d := &Driver{explain: evaluator.PlainExplain}
	for _, opt := range opts {
		opt(d)
	}
	d.resolver = evaluator.NewResolver(d.explain)
	return d
}

// Run is New(opts...).Run.
func Run(ctx context.Context, input iter.Seq2[value.Value, error], paths []columnpath.Path, opts ...Option) iter.Seq2[value.Value, error] {
	return New(opts...).Run(ctx, input, paths)
}

// Run returns the lazy output stream. Output order is input item, then
// path, then table row. Resolution failures become Error values in place.
// An input error or context cancellation is yielded once and ends the
// stream.
func (d *Driver) Run(ctx context.Context, input iter.Seq2[value.Value, error], paths []columnpath.Path) iter.Seq2[value.Value, error] {
	if len(paths) == 0 {
		return d.discover(ctx, input)
	}

	return func(yield func(value.Value, error) bool) {
		for item, err := range input {
			if err != nil {
				yield(nil, err)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			for _, path := range paths {
				if !d.emit(item, path, yield) {
					return
				}
			}
		}
	}
}

func (d *Driver) emit(item value.Value, path columnpath.Path, yield func(value.Value, error) bool) bool {
	resolved, failure := d.resolver.Resolve(item, path)
	if failure != nil {
		return yield(value.NewError(d.explain(failure), item.Tag()), nil)
	}

	switch result := resolved.(type) {
	case *value.Scalar:
		if result.IsNothing() {
			return true
		}
		return yield(result, nil)
	case *value.Table:
		for _, row := range result.Rows() {
			if !yield(row, nil) {
				return false
			}
		}
		return true
	case *value.Record, *value.Error:
		return yield(result, nil)
	default:
		panic(fmt.Sprintf("get: unexpected value variant %T", resolved))
	}
}

func (d *Driver) discover(ctx context.Context, input iter.Seq2[value.Value, error]) iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		names, err := Columns(ctx, input)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, name := range names {
			if !yield(value.String(name, source.UnknownTag()), nil) {
				return
			}
		}
	}
}
