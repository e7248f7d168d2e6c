package playback

import (
	"context"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/table"
)

// session is one run of a rule routine against a fresh table.
//
// The routine runs on its own goroutine but never concurrently with the
// driver: it hands control over by sending a round on yield and takes it
// back on resume. The table is therefore owned by whichever side currently
// holds control.
type session struct {
	gen    uint64
	table  *table.Table
	reg    *pick.Registry
	logger *zap.Logger
	quota  *roundQuota

	ctx    context.Context
	cancel context.CancelCauseFunc
	yield  chan *pick.Round
	resume chan struct{}
	done   chan error

	// driver side
	round    *pick.Round
	queue    []pick.Bucket
	finished bool
	err      error
}

// protect runs fn and converts a panic into a RoutinePanic.
func protect(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &RoutinePanic{Value: v, Stack: debug.Stack()}
		}
	}()
	return fn()
}

func (s *session) start(rules Rules) {
	g := &Game{s: s}
	go func() {
		s.done <- protect(func() error { return rules(s.ctx, g) })
	}()
}

// wait blocks until the routine yields a round or returns.
func (s *session) wait(ctx context.Context) (*pick.Round, error) {
	select {
	case r := <-s.yield:
		return r, nil
	case err := <-s.done:
		s.finished = true
		s.err = err
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *session) abandon() {
	s.cancel(ErrAbandoned)
	s.round = nil
	s.queue = nil
}
