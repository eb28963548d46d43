// Package pipeline fans polymer transformations out to a worker pool and
// collects the results in input order.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
)

// WorkItem holds one input polymer.
type WorkItem[T any] struct {
	Seq     int
	Polymer T
}

// WorkResult holds the polymers produced from one input.
type WorkResult[T any] struct {
	Seq     int
	Polymer T
	Out     []T
	Err     error
}

// Process transforms one polymer into zero or more polymers.
type Process[T any] func(T) ([]T, error)

// Feed sends polymers as sequence-numbered work items on a closed channel.
func Feed[T any](polymers []T) <-chan WorkItem[T] {
	items := make(chan WorkItem[T], len(polymers))
	for i, p := range polymers {
		items <- WorkItem[T]{Seq: i, Polymer: p}
	}
	close(items)
	return items
}

// Run processes work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used. A panicking process is
// reported as the item's error.
func Run[T any](items <-chan WorkItem[T], workers int, fn Process[T]) <-chan WorkResult[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult[T], 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				out, err := safeProcess(fn, item.Polymer)
				results <- WorkResult[T]{
					Seq:     item.Seq,
					Polymer: item.Polymer,
					Out:     out,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func safeProcess[T any](fn Process[T], p T) (out []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("process panicked: %v", r)
		}
	}()
	return fn(p)
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect[T any](results <-chan WorkResult[T], fn func(WorkResult[T]) error) error {
	pending := make(map[int]WorkResult[T])
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// Map runs fn over polymers with the given worker count and returns the
// concatenated outputs in input order. Failing items are passed to onErr
// and skipped; a nil onErr ignores them.
func Map[T any](polymers []T, workers int, fn Process[T], onErr func(T, error)) []T {
	var out []T
	_ = OrderedCollect(Run(Feed(polymers), workers, fn), func(r WorkResult[T]) error {
		if r.Err != nil {
			if onErr != nil {
				onErr(r.Polymer, r.Err)
			}
			return nil
		}
		out = append(out, r.Out...)
		return nil
	})
	return out
}
