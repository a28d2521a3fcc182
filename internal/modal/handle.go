package modal

import (
	"context"
	"sync"

	"github.com/jmylchreest/uikit/internal/model"
)

// Outcome is the terminal state of a modal.
type Outcome int

const (
	// OutcomePending means the modal is still open.
	OutcomePending Outcome = iota
	// OutcomeResolved means the modal was confirmed.
	OutcomeResolved
	// OutcomeDismissed means the modal was closed without committing.
	OutcomeDismissed
	// OutcomeRejected means the modal was cancelled with an error.
	OutcomeRejected
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeResolved:
		return "resolved"
	case OutcomeDismissed:
		return "dismissed"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Handle is the caller's side of an open modal. It settles exactly once.
type Handle[T any] struct {
	modal model.Modal
	done  chan struct{}
	once  sync.Once

	value   T
	err     error
	outcome Outcome
}

func newHandle[T any](m model.Modal) *Handle[T] {
	return &Handle[T]{
		modal: m,
		done:  make(chan struct{}),
	}
}

// ID returns the modal id used by Resolve, Dismiss and Reject.
func (h *Handle[T]) ID() string {
	return h.modal.ID
}

// Modal returns the record as it was opened.
func (h *Handle[T]) Modal() model.Modal {
	return h.modal
}

// Done returns a channel that is closed once the modal settles.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the modal settles or ctx is done. Cancelling ctx does
// not close the modal.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the settled value without blocking. It reports
// ErrPending while the modal is still open.
func (h *Handle[T]) Result() (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	default:
		var zero T
		return zero, ErrPending
	}
}

// Outcome returns how the modal ended, or OutcomePending.
func (h *Handle[T]) Outcome() Outcome {
	select {
	case <-h.done:
		return h.outcome
	default:
		return OutcomePending
	}
}

// settle delivers the result. A nil value yields the zero T. The manager
// checks value types before settling.
func (h *Handle[T]) settle(value any, outcome Outcome, err error) {
	h.once.Do(func() {
		h.outcome = outcome
		if err != nil {
			h.err = err
		} else if v, ok := value.(T); ok {
			h.value = v
		}
		close(h.done)
	})
}
