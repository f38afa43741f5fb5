// Package batch runs independent per-record operations with a
// caller-selected failure policy.
package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Mode is the batch failure policy
type Mode string

const (
	// FailFast stops scheduling records after the first failure
	FailFast Mode = "failfast"

	// ContinueOnError runs every record and captures each error
	ContinueOnError Mode = "continue"
)

// ErrSkipped marks records never run because an earlier record failed
var ErrSkipped = errors.New("skipped after earlier failure")

// ParseMode parses a mode name. Empty selects FailFast.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", FailFast:
		return FailFast, nil
	case ContinueOnError:
		return ContinueOnError, nil
	default:
		return "", fmt.Errorf("unknown batch mode %q", s)
	}
}

// Options configures Run
type Options struct {
	Mode        Mode
	Concurrency int // records in flight; values below 1 mean 1
}

// ItemError is a failure tied to a record position
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one record
type Outcome[T any] struct {
	Index int
	Value T
	Err   error
}

// Run calls fn for records 0..n-1 and returns one outcome per record, in
// record order. Under FailFast the first failure cancels the context passed
// to fn, unstarted records get ErrSkipped and the failure is returned as an
// *ItemError. Under ContinueOnError Run only returns an error when ctx is
// done; per-record errors stay on the outcomes.
func Run[T any](ctx context.Context, n int, opts Options, fn func(ctx context.Context, i int) (T, error)) ([]Outcome[T], error) {
	outcomes := make([]Outcome[T], n)
	for i := range outcomes {
		outcomes[i] = Outcome[T]{Index: i, Err: ErrSkipped}
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	failFast := opts.Mode != ContinueOnError

	var g *errgroup.Group
	gctx := ctx
	if failFast {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}
	g.SetLimit(limit)

	for i := 0; i < n; i++ {
		if failFast && gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				if failFast {
					return nil
				}
				outcomes[i].Err = err
				return nil
			}

			v, err := fn(gctx, i)
			outcomes[i] = Outcome[T]{Index: i, Value: v, Err: err}
			if err != nil && failFast {
				return &ItemError{Index: i, Err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// Errors collects the failed outcomes, skipped records excluded
func Errors[T any](outcomes []Outcome[T]) []*ItemError {
	var errs []*ItemError
	for _, o := range outcomes {
		if o.Err != nil && !errors.Is(o.Err, ErrSkipped) {
			errs = append(errs, &ItemError{Index: o.Index, Err: o.Err})
		}
	}
	return errs
}
