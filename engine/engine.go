package engine

import (
	"context"
	"sync"
	"time"

	Logger "github.com/Luismorlan/contentmux/utils/log"
)

// Engine manages the execution lifecycle of each module. Every module runs in
// its own routine and shares the engine root context.
type Engine struct {
	// A list of modules that will be run in this Engine. Module's lifetime is
	// bound to Engine's lifetime.
	Modules []Module

	// Delay before a failed module is restarted.
	RetryDelay time.Duration

	// Root this engine is running on
	ctx context.Context

	// Cancel function for root context, used for graceful shutdown
	cancel context.CancelFunc
}

// Create a new Engine given the provided modules.
func NewEngine(ms []Module, ctx context.Context, cancel context.CancelFunc) *Engine {
	return &Engine{
		Modules:    ms,
		RetryDelay: GracefulRetryDelay,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Execute all Engine modules and wait until all modules finish execution.
func (e *Engine) Run() {
	var wg sync.WaitGroup

	for idx := range e.Modules {
		wg.Add(1)
		go func(m Module) {
			defer wg.Done()
			Logger.Log.Infof("start engine module %s", m.Name())
			RunModuleWithGracefulRestart(e.ctx, m, e.RetryDelay)
			Logger.Log.Infof("Module %s finished execution.", m.Name())
		}(e.Modules[idx])
	}

	// Block until all goroutine finished execution.
	wg.Wait()
}

// Shutdown cancels the root context, modules return from RunModule once
// they observe it.
func (e *Engine) Shutdown() {
	Logger.Log.Infoln("Starting graceful shutdown process. Goodbye!")
	e.cancel()
}
