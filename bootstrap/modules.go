package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/Luismorlan/contentmux/engine"
	"github.com/Luismorlan/contentmux/jobs"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/ThreeDotsLabs/watermill/message"
)

const httpShutdownTimeout = 10 * time.Second

// WorkerModule runs the comment worker router until the context is done.
type WorkerModule struct {
	Router *message.Router
}

func (m *WorkerModule) Name() string {
	return "comment_worker"
}

func (m *WorkerModule) RunModule(ctx context.Context) error {
	return m.Router.Run(ctx)
}

// waitReady blocks until ready is closed. It returns false when ctx is done
// first. A nil ready never blocks.
func waitReady(ctx context.Context, ready <-chan struct{}) bool {
	if ready == nil {
		return true
	}
	select {
	case <-ready:
		return true
	case <-ctx.Done():
		return false
	}
}

// PullerModule runs the periodic content puller once Ready is closed.
type PullerModule struct {
	Cron  *jobs.CronRunner
	Ready <-chan struct{}
}

func (m *PullerModule) Name() string {
	return "content_puller"
}

func (m *PullerModule) RunModule(ctx context.Context) error {
	if !waitReady(ctx, m.Ready) {
		return nil
	}
	m.Cron.Start()
	<-ctx.Done()
	m.Cron.Stop()
	return nil
}

// HTTPModule serves the API once Ready is closed and shuts the server down
// gracefully once the context is done.
type HTTPModule struct {
	Addr    string
	Handler http.Handler
	Ready   <-chan struct{}
}

func (m *HTTPModule) Name() string {
	return "api_server"
}

func (m *HTTPModule) RunModule(ctx context.Context) error {
	if !waitReady(ctx, m.Ready) {
		return nil
	}
	srv := &http.Server{Addr: m.Addr, Handler: m.Handler}
	errCh := make(chan error, 1)
	go func() {
		Logger.Log.WithField("addr", m.Addr).Info("api server starts up")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Modules lists what this process runs. The worker always runs since the
// job queue is in process. Producers of comment jobs wait for the worker to
// subscribe, the event bus drops messages published before that.
func (a *App) Modules(serviceName string, serveHTTP bool, runPuller bool) []engine.Module {
	workerReady := a.Router.Running()
	modules := []engine.Module{&WorkerModule{Router: a.Router}}
	if runPuller && a.Setting.PullContentEnabled {
		modules = append(modules, &PullerModule{Cron: a.Cron, Ready: workerReady})
	} else {
		Logger.Log.Info("content puller disabled")
	}
	if serveHTTP {
		modules = append(modules, &HTTPModule{
			Addr:    a.Setting.HTTPAddr,
			Handler: a.HTTPHandler(serviceName),
			Ready:   workerReady,
		})
	}
	return modules
}
