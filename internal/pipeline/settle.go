package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is the settled result of one item of a SettleAll batch.
type Outcome[T any] struct {
	Value T
	Err   error
}

// SettleAll runs fn for every item with at most limit calls in flight
// (limit <= 0 means unbounded) and waits for all of them. One item failing,
// or panicking, never cancels or affects the others. Outcomes are returned
// in input order.
func SettleAll[In, Out any](ctx context.Context, items []In, limit int, fn func(context.Context, In) (Out, error)) []Outcome[Out] {
	outcomes := make([]Outcome[Out], len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = Outcome[Out]{Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			v, err := fn(ctx, item)
			outcomes[i] = Outcome[Out]{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Partition splits outcomes into successful values and errors, keeping order.
func Partition[T any](outcomes []Outcome[T]) (values []T, errs []error) {
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
			continue
		}
		values = append(values, o.Value)
	}
	return values, errs
}
