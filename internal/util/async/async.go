package async

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result is the outcome of a single task.
type Result struct {
	Name string
	Err  error
}

// WaitAll runs every task concurrently and waits for all of them to finish.
// A failing task does not cancel the others, so every result is reported.
// Results are returned in task order; the returned error joins every failure
// with the task name.
//
// Example:
//
//	results, err := WaitAll(ctx, []Task{
//	    {Name: "cilium", Func: waitCilium},
//	    {Name: "ingress", Func: waitIngress},
//	})
func WaitAll(ctx context.Context, tasks []Task) ([]Result, error) {
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			err := task.Func(ctx)
			results[i] = Result{Name: task.Name, Err: err}
			return err
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return results, errors.Join(errs...)
}
