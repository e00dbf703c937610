// File: reactor/reactor_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/fake"
	"github.com/momentics/hioload-rt/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newFakeReactor(t *testing.T, opts ...reactor.Option) (*reactor.Reactor, *fake.Poller) {
	t.Helper()
	p := fake.NewPoller()
	r, err := reactor.New(append([]reactor.Option{reactor.WithPollerFactory(p.Factory())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, p
}

func waitWake(t *testing.T, w *fake.RecordingWaker) {
	t.Helper()
	select {
	case <-w.C:
	case <-time.After(2 * time.Second):
		t.Fatal("waker not invoked")
	}
}

func TestReactor_EventWakesRegisteredWaker(t *testing.T) {
	r, p := newFakeReactor(t)
	id := r.NextID()
	require.NoError(t, r.Register(5, api.Readable, id))
	tok, ok := p.Token(5)
	require.True(t, ok)
	assert.Equal(t, id, tok)

	w := fake.NewRecordingWaker()
	r.SetWaker(w, id)
	p.Inject(id, api.Readable)
	waitWake(t, w)
	assert.Equal(t, 1, r.Len())
}

func TestReactor_SetWakerLastWriteWins(t *testing.T) {
	r, p := newFakeReactor(t)
	id := r.NextID()
	require.NoError(t, r.Register(5, api.Readable, id))

	stale := fake.NewRecordingWaker()
	fresh := fake.NewRecordingWaker()
	r.SetWaker(stale, id)
	r.SetWaker(fresh, id)
	p.Inject(id, api.Readable)
	waitWake(t, fresh)
	assert.Zero(t, stale.Count())
}

func TestReactor_OrphanEventIgnored(t *testing.T) {
	r, p := newFakeReactor(t)
	p.Inject(99, api.Readable)
	require.Eventually(t, func() bool { return r.Stats().OrphanEvents == 1 }, time.Second, time.Millisecond)

	// registered but no waker installed yet
	id := r.NextID()
	require.NoError(t, r.Register(3, api.Writable, id))
	p.Inject(id, api.Writable)
	require.Eventually(t, func() bool { return r.Stats().OrphanEvents == 2 }, time.Second, time.Millisecond)
	assert.Zero(t, r.Stats().Wakes)
}

func TestReactor_DeregisterTwice(t *testing.T) {
	r, p := newFakeReactor(t)
	id := r.NextID()
	require.NoError(t, r.Register(7, api.Readable, id))
	r.SetWaker(fake.NewRecordingWaker(), id)

	require.NoError(t, r.Deregister(7, id))
	require.NoError(t, r.Deregister(7, id))
	_, dels := p.Counts()
	assert.Equal(t, 1, dels)
	assert.Zero(t, r.Len())
	assert.Equal(t, uint64(1), r.Stats().Deregistered)

	// late event for the released id is dropped
	p.Inject(id, api.Readable)
	require.Eventually(t, func() bool { return r.Stats().OrphanEvents == 1 }, time.Second, time.Millisecond)
}

func TestReactor_NextIDUnique(t *testing.T) {
	r, _ := newFakeReactor(t)
	const workers, per = 10, 1000

	var mu sync.Mutex
	seen := make(map[uint64]struct{}, workers*per)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			local := make([]uint64, 0, per)
			for j := 0; j < per; j++ {
				local = append(local, r.NextID())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, seen, workers*per)
	_, zero := seen[0]
	assert.False(t, zero, "id 0 is reserved")
}

func TestReactor_RegisterAfterClose(t *testing.T) {
	r, _ := newFakeReactor(t)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	select {
	case <-r.Done():
	default:
		t.Fatal("loop still running after Close")
	}
	assert.ErrorIs(t, r.Register(1, api.Readable, r.NextID()), api.ErrReactorClosed)
}

func TestReactor_CloseRetriesAfterWakeFailure(t *testing.T) {
	p := fake.NewPoller()
	r, err := reactor.Start(reactor.WithPollerFactory(p.Factory()))
	require.NoError(t, err)

	boom := errors.New("eventfd write failed")
	p.SetWakeError(boom)
	assert.ErrorIs(t, r.Close(), boom)

	got, err := reactor.Lookup()
	require.NoError(t, err)
	assert.Same(t, r, got)
	id := r.NextID()
	require.NoError(t, r.Register(3, api.Readable, id))
	require.NoError(t, r.Deregister(3, id))

	p.SetWakeError(nil)
	require.NoError(t, r.Close())
	<-r.Done()
	_, err = reactor.Lookup()
	assert.ErrorIs(t, err, api.ErrNoReactor)
}

func TestReactor_RegisterRacingClose(t *testing.T) {
	for i := 0; i < 20; i++ {
		r, p := newFakeReactor(t)
		var g errgroup.Group
		for w := 0; w < 8; w++ {
			fd := w
			g.Go(func() error {
				for j := 0; j < 50; j++ {
					id := r.NextID()
					if err := r.Register(fd, api.Readable, id); err != nil {
						if errors.Is(err, api.ErrReactorClosed) {
							return nil
						}
						return err
					}
					if err := r.Deregister(fd, id); err != nil {
						return err
					}
				}
				return nil
			})
		}
		require.NoError(t, r.Close())
		require.NoError(t, g.Wait())
		assert.Zero(t, p.LateCalls())
	}
}

func TestReactor_PublishesMetrics(t *testing.T) {
	reg := control.NewMetricsRegistry()
	r, p := newFakeReactor(t, reactor.WithMetrics(reg))
	id := r.NextID()
	require.NoError(t, r.Register(5, api.Readable, id))
	r.SetWaker(fake.NewRecordingWaker(), id)
	p.Inject(id, api.Readable)

	require.Eventually(t, func() bool {
		v, ok := reg.Get("reactor.wakes")
		return ok && v == 1
	}, time.Second, time.Millisecond)
	v, _ := reg.Get("reactor.registered")
	assert.Equal(t, uint64(1), v)
}

func TestRegistration_ReleaseOnce(t *testing.T) {
	r, p := newFakeReactor(t)
	g, err := reactor.Acquire(r, 9, api.Readable)
	require.NoError(t, err)
	assert.Equal(t, 9, g.Fd())
	assert.NotZero(t, g.ID())

	w := fake.NewRecordingWaker()
	g.SetWaker(w)
	p.Inject(g.ID(), api.Readable)
	waitWake(t, w)

	require.NoError(t, g.Release())
	require.NoError(t, g.Release())
	assert.True(t, g.Released())
	_, dels := p.Counts()
	assert.Equal(t, 1, dels)

	// SetWaker after release must not resurrect the entry
	g.SetWaker(w)
	p.Inject(g.ID(), api.Readable)
	require.Eventually(t, func() bool { return r.Stats().OrphanEvents == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, w.Count())
}

func TestSingleton_Lifecycle(t *testing.T) {
	p := fake.NewPoller()
	_, err := reactor.Lookup()
	require.ErrorIs(t, err, api.ErrNoReactor)
	assert.PanicsWithError(t, api.ErrNoReactor.Error(), func() { reactor.Default() })

	r, err := reactor.Start(reactor.WithPollerFactory(p.Factory()))
	require.NoError(t, err)
	assert.Same(t, r, reactor.Default())

	_, err = reactor.Start(reactor.WithPollerFactory(p.Factory()))
	assert.ErrorIs(t, err, api.ErrReactorRunning)

	require.NoError(t, r.Close())
	_, err = reactor.Lookup()
	assert.ErrorIs(t, err, api.ErrNoReactor)

	r2, err := reactor.Start(reactor.WithPollerFactory(fake.NewPoller().Factory()))
	require.NoError(t, err)
	assert.NotSame(t, r, r2)
	require.NoError(t, r2.Close())
}
