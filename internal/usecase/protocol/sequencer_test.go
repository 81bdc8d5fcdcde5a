package protocol

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/platform"
	"microlending/internal/usecase/collateral"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// recordingApplier remembers the order calls reached it.
type recordingApplier struct {
	mu          sync.Mutex
	heights     []uint64
	inflight    int
	maxInflight int
	gate        chan struct{}
}

func (a *recordingApplier) Apply(ctx context.Context, call platform.Call, op Operation) (Result, error) {
	a.mu.Lock()
	a.inflight++
	a.maxInflight = max(a.maxInflight, a.inflight)
	a.mu.Unlock()

	if a.gate != nil {
		<-a.gate
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inflight--
	a.heights = append(a.heights, call.Height)
	return Result{Op: op.Name()}, nil
}

func startSequencer(t *testing.T, app Applier, depth int) (*Sequencer, func()) {
	t.Helper()
	seq := NewSequencer(app, depth)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = seq.Run(ctx)
	}()
	return seq, func() {
		cancel()
		<-done
	}
}

func TestSequencer_AppliesInArrivalOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := &recordingApplier{}
	seq, stop := startSequencer(t, app, 0)
	defer stop()

	// each submit returns only after its operation ran, so arrival order is 1..50
	for h := uint64(1); h <= 50; h++ {
		res, err := seq.Submit(context.Background(), platform.Call{Caller: owner, Height: h}, ToggleEmergencyStop{})
		require.NoError(t, err)
		assert.Equal(t, "toggle-emergency-stop", res.Op)
	}

	want := make([]uint64, 50)
	for i := range want {
		want[i] = uint64(i + 1)
	}
	assert.Equal(t, want, app.heights)
}

func TestSequencer_OneAtATime(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := &recordingApplier{gate: make(chan struct{})}
	seq, stop := startSequencer(t, app, 8)
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(h uint64) {
			defer wg.Done()
			_, _ = seq.Submit(context.Background(), platform.Call{Height: h}, ToggleEmergencyStop{})
		}(uint64(i))
	}
	for i := 0; i < 8; i++ {
		app.gate <- struct{}{}
	}
	wg.Wait()
	assert.Len(t, app.heights, 8)
	assert.Equal(t, 1, app.maxInflight)
}

func TestSequencer_CanceledBeforeStart(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := &recordingApplier{}
	seq := NewSequencer(app, 1)

	// queued while no worker runs, then abandoned
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := seq.Submit(ctx, platform.Call{Height: 1}, ToggleEmergencyStop{})
		errc <- err
	}()
	require.Eventually(t, func() bool { return len(seq.queue) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	runCtx, runCancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = seq.Run(runCtx)
	}()
	_, err := seq.Submit(context.Background(), platform.Call{Height: 2}, ToggleEmergencyStop{})
	require.NoError(t, err)
	runCancel()
	<-done

	assert.Equal(t, []uint64{2}, app.heights)
}

func TestSequencer_Stopped(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	seq, stop := startSequencer(t, &recordingApplier{}, 0)
	stop()

	_, err := seq.Submit(context.Background(), platform.Call{}, ToggleEmergencyStop{})
	assert.True(t, errors.Is(err, ErrSequencerStopped))
}

func TestSequencer_SubmitAfterRunReturned(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := &recordingApplier{}
	seq, stop := startSequencer(t, app, 8)
	stop()

	// the buffer has room, so only the closed flag keeps these out of a dead queue
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := seq.Submit(ctx, platform.Call{Height: uint64(i)}, ToggleEmergencyStop{})
		cancel()
		require.ErrorIs(t, err, ErrSequencerStopped, "submit %d", i)
	}
	assert.Empty(t, app.heights)
	assert.Empty(t, seq.queue)
}

func TestSequencer_StartedOperationOutlivesCaller(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := &recordingApplier{gate: make(chan struct{})}
	seq, stop := startSequencer(t, app, 1)
	defer stop()

	ctx, cancel := context.WithCancel(context.Background())
	type outcome struct {
		res Result
		err error
	}
	out := make(chan outcome, 1)
	go func() {
		res, err := seq.Submit(ctx, platform.Call{Height: 7}, ToggleEmergencyStop{})
		out <- outcome{res, err}
	}()

	require.Eventually(t, func() bool {
		app.mu.Lock()
		defer app.mu.Unlock()
		return app.inflight == 1
	}, time.Second, time.Millisecond)
	cancel()

	// the caller must not see a cancellation for work that is being applied
	select {
	case o := <-out:
		t.Fatalf("Submit returned before the operation finished: %+v", o)
	case <-time.After(20 * time.Millisecond):
	}

	app.gate <- struct{}{}
	o := <-out
	require.NoError(t, o.err)
	assert.Equal(t, "toggle-emergency-stop", o.res.Op)
	assert.Equal(t, []uint64{7}, app.heights)
}

func TestSequencer_WithService(t *testing.T) {
	f := newFixture(t, collateral.DefaultParams())
	seq, stop := startSequencer(t, f.svc, 4)
	defer stop()

	ctx := context.Background()
	_, err := seq.Submit(ctx, at(owner, 1), AddCollateralAsset{Symbol: "STX"})
	require.NoError(t, err)
	_, err = seq.Submit(ctx, at(owner, 1), UpdateAssetPrice{Symbol: "STX", Price: 1_000_000})
	require.NoError(t, err)

	res, err := seq.Submit(ctx, at(borrower, 2), request())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.LoanID)

	_, err = seq.Submit(ctx, at(borrower, 3), AddCollateralAsset{Symbol: "BTC"})
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)
}
