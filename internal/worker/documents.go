package worker

import (
	"context"
	"fmt"
	"sort"
)

// ProcessFunc handles one document
type ProcessFunc[T any] func(ctx context.Context, docID string) (T, error)

// DocumentJob runs a ProcessFunc for one document
type DocumentJob[T any] struct {
	Index int
	DocID string
	Fn    ProcessFunc[T]
}

// Execute executes the document job
func (j *DocumentJob[T]) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &DocumentResult[T]{Index: j.Index, DocID: j.DocID, Error: err}
	}
	v, err := j.Fn(ctx, j.DocID)
	return &DocumentResult[T]{Index: j.Index, DocID: j.DocID, Value: v, Error: err}
}

// DocumentResult is the outcome of one DocumentJob
type DocumentResult[T any] struct {
	Index int
	DocID string
	Value T
	Error error
}

// GetError returns the error from the document result
func (r *DocumentResult[T]) GetError() error {
	return r.Error
}

// BatchProcessor maps a ProcessFunc over documents concurrently
type BatchProcessor[T any] struct {
	workers  int
	progress *Progress
}

// NewBatchProcessor creates a batch processor. progress may be nil.
func NewBatchProcessor[T any](workers int, progress *Progress) *BatchProcessor[T] {
	return &BatchProcessor[T]{
		workers:  workers,
		progress: progress,
	}
}

// Process runs fn for every document and returns the results in input
// order, so the worker count never changes the output. The error of the
// earliest failing document in input order is returned.
func (b *BatchProcessor[T]) Process(ctx context.Context, docIDs []string, fn ProcessFunc[T]) ([]*DocumentResult[T], error) {
	if len(docIDs) == 0 {
		return []*DocumentResult[T]{}, nil
	}

	tracked := fn
	if b.progress != nil {
		tracked = func(ctx context.Context, docID string) (T, error) {
			v, err := fn(ctx, docID)
			b.progress.Done(docID)
			return v, err
		}
	}

	jobs := make([]Job, len(docIDs))
	for i, id := range docIDs {
		jobs[i] = &DocumentJob[T]{Index: i, DocID: id, Fn: tracked}
	}

	pool := NewPool(ctx, b.workers)
	raw := pool.Run(jobs)

	results := make([]*DocumentResult[T], 0, len(raw))
	for _, r := range raw {
		results = append(results, r.(*DocumentResult[T]))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	if len(results) != len(docIDs) {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("batch interrupted: %w", err)
		}
		return results, fmt.Errorf("batch incomplete: %d of %d documents", len(results), len(docIDs))
	}
	for _, r := range results {
		if r.Error != nil {
			return results, fmt.Errorf("%s: %w", r.DocID, r.Error)
		}
	}
	return results, nil
}
