// Package workerpool runs bounded concurrent work over a slice of items.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Process invokes process for every item using at most workerCount goroutines.
// The first error cancels the remaining work and is returned.
func Process[T any](ctx context.Context, workerCount int, items []T, process func(context.Context, T) error) error {
	if workerCount < 1 {
		workerCount = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)

	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		item := item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return process(gctx, item)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map applies fn to every item concurrently and returns the results in input order.
func Map[T, R any](ctx context.Context, workerCount int, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	indexes := make([]int, len(items))
	for i := range indexes {
		indexes[i] = i
	}

	err := Process(ctx, workerCount, indexes, func(ctx context.Context, i int) error {
		result, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		results[i] = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
