package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type flakyModule struct {
	failures int32
	runs     int32
}

func (m *flakyModule) RunModule(ctx context.Context) error {
	run := atomic.AddInt32(&m.runs, 1)
	if run <= m.failures {
		return errors.New("transient failure")
	}
	<-ctx.Done()
	return nil
}

func (m *flakyModule) Name() string {
	return "flaky"
}

type failingModule struct {
	runs int32
}

func (m *failingModule) RunModule(ctx context.Context) error {
	atomic.AddInt32(&m.runs, 1)
	return errors.New("always failing")
}

func (m *failingModule) Name() string {
	return "failing"
}

func TestEngineRestartsFailedModules(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	flaky := &flakyModule{failures: 2}
	e := NewEngine([]Module{flaky}, ctx, cancel)
	e.RetryDelay = time.Millisecond

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&flaky.runs) == 3
	}, time.Second, time.Millisecond)

	e.Shutdown()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&flaky.runs))
}

func TestRunModuleStopsRetryingOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	failing := &failingModule{}

	done := make(chan struct{})
	go func() {
		RunModuleWithGracefulRestart(ctx, failing, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&failing.runs) == 1
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("module kept retrying after shutdown")
	}
}
