package protocol

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"microlending/internal/domain/platform"
)

var ErrSequencerStopped = errors.New("sequencer stopped")

// Applier is satisfied by *Service.
type Applier interface {
	Apply(ctx context.Context, call platform.Call, op Operation) (Result, error)
}

type reply struct {
	res Result
	err error
}

// job states; a queued job is claimed exactly once, by the worker or by its abandoning caller
const (
	jobQueued int32 = iota
	jobStarted
	jobAbandoned
)

type job struct {
	ctx   context.Context
	call  platform.Call
	op    Operation
	state atomic.Int32
	done  chan reply
}

func (j *job) start() bool   { return j.state.CompareAndSwap(jobQueued, jobStarted) }
func (j *job) abandon() bool { return j.state.CompareAndSwap(jobQueued, jobAbandoned) }

// Sequencer applies submitted operations one at a time in arrival order.
type Sequencer struct {
	svc     Applier
	queue   chan *job
	stopped chan struct{}

	mu     sync.RWMutex // held shared while enqueueing, exclusively to close
	closed bool
}

func NewSequencer(svc Applier, depth int) *Sequencer {
	if depth < 0 {
		depth = 0
	}
	return &Sequencer{svc: svc, queue: make(chan *job, depth), stopped: make(chan struct{})}
}

// Run is the single worker. It returns when ctx ends; queued jobs not yet started fail with
// ErrSequencerStopped.
func (s *Sequencer) Run(ctx context.Context) error {
	defer func() {
		close(s.stopped)
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		for {
			select {
			case j := <-s.queue:
				j.done <- reply{err: ErrSequencerStopped}
			default:
				return
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j := <-s.queue:
			if err := j.ctx.Err(); err != nil && j.abandon() {
				j.done <- reply{err: err}
				continue
			}
			if !j.start() {
				continue
			}
			// a started operation runs to completion even if its caller goes away
			res, err := s.svc.Apply(context.WithoutCancel(j.ctx), j.call, j.op)
			j.done <- reply{res: res, err: err}
		}
	}
}

func (s *Sequencer) enqueue(ctx context.Context, j *job) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSequencerStopped
	}
	select {
	case s.queue <- j:
		return nil
	case <-s.stopped:
		return ErrSequencerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit enqueues op and waits for its result. If ctx ends before the operation starts it is
// dropped and ctx's error returned; once started, Submit waits for the outcome regardless of ctx.
func (s *Sequencer) Submit(ctx context.Context, call platform.Call, op Operation) (Result, error) {
	j := &job{ctx: ctx, call: call, op: op, done: make(chan reply, 1)}
	if err := s.enqueue(ctx, j); err != nil {
		return Result{}, err
	}
	select {
	case r := <-j.done:
		return r.res, r.err
	case <-ctx.Done():
		if j.abandon() {
			return Result{}, ctx.Err()
		}
	}
	r := <-j.done
	return r.res, r.err
}
