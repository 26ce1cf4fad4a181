package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a named operation.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks concurrently and waits for all of them.
// Errors are wrapped with the task name and joined in task order.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "bay-a", Func: deleteBay("a")},
//	    {Name: "bay-b", Func: deleteBay("b")},
//	}
//	if err := RunParallel(ctx, tasks); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Go(func() {
			if err := task.Func(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", task.Name, err)
			}
		})
	}
	wg.Wait()

	return errors.Join(errs...)
}
